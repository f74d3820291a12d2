package handlers

import (
	"context"
	"net/http"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// CategoryRequest is the body of POST /forum/categories
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// CategoryUpdateRequest is the body of PUT /forum/categories/{id}
type CategoryUpdateRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,min=1"`
	Description models.Nullable[string] `json:"description"`
}

// ThreadRequest is the body of POST /forum/threads
type ThreadRequest struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

// ThreadUpdateRequest is the body of PUT /forum/threads/{id}. Threads cannot
// move between categories.
type ThreadUpdateRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

// ReplyRequest is the body of POST /forum/replies
type ReplyRequest struct {
	Content  string `json:"content" validate:"required"`
	ThreadID int64  `json:"thread_id" validate:"required,gt=0"`
}

// ReplyUpdateRequest is the body of PUT /forum/replies/{id}
type ReplyUpdateRequest struct {
	Content string `json:"content" validate:"required"`
}

// ForumService defines the forum operations used by ForumHandler
type ForumService interface {
	ListCategories(ctx context.Context) ([]*models.ForumCategory, error)
	GetCategory(ctx context.Context, id int64) (*models.ForumCategory, error)
	CategoryThreads(ctx context.Context, id int64) (*models.ForumCategory, []*models.ForumThread, error)
	CreateCategory(ctx context.Context, p *policy.Principal, name string, description *string) (*models.ForumCategory, error)
	UpdateCategory(ctx context.Context, p *policy.Principal, id int64, patch models.CategoryPatch) (*models.ForumCategory, error)
	DeleteCategory(ctx context.Context, p *policy.Principal, id int64) error

	GetThread(ctx context.Context, id int64) (*models.ForumThread, error)
	CreateThread(ctx context.Context, p *policy.Principal, title, content string, categoryID int64) (*models.ForumThread, error)
	UpdateThread(ctx context.Context, p *policy.Principal, id int64, patch models.ThreadPatch) (*models.ForumThread, error)
	DeleteThread(ctx context.Context, p *policy.Principal, id int64) error

	CreateReply(ctx context.Context, p *policy.Principal, content string, threadID int64) (*models.ForumReply, error)
	UpdateReply(ctx context.Context, p *policy.Principal, id int64, content string) (*models.ForumReply, error)
	DeleteReply(ctx context.Context, p *policy.Principal, id int64) error
}

// ForumHandler handles forum categories, threads and replies
type ForumHandler struct {
	service ForumService
	logger  *zap.Logger
}

// NewForumHandler creates a new ForumHandler
func NewForumHandler(service ForumService, logger *zap.Logger) *ForumHandler {
	return &ForumHandler{
		service: service,
		logger:  logger,
	}
}

// Categories

// HandleListCategories handles GET /forum/categories
func (h *ForumHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"categories": categories}))
}

// HandleGetCategory handles GET /forum/categories/{id}
func (h *ForumHandler) HandleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "category")
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"category": category}))
}

// HandleCategoryThreads handles GET /forum/categories/{id}/threads
func (h *ForumHandler) HandleCategoryThreads(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "category")
	if !ok {
		return
	}

	category, threads, err := h.service.CategoryThreads(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"category": category,
		"threads":  threads,
	}))
}

// HandleCreateCategory handles POST /forum/categories
func (h *ForumHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), principal(r), req.Name, req.Description)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteCreated(w, utils.Envelope{
		"message":  "Category created successfully",
		"category": category,
	}))
}

// HandleUpdateCategory handles PUT /forum/categories/{id}
func (h *ForumHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "category")
	if !ok {
		return
	}

	var req CategoryUpdateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), principal(r), id, models.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message":  "Category updated successfully",
		"category": category,
	}))
}

// HandleDeleteCategory handles DELETE /forum/categories/{id}
func (h *ForumHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "category")
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), principal(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "Category deleted successfully"))
}

// Threads

// HandleGetThread handles GET /forum/threads/{id}
func (h *ForumHandler) HandleGetThread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "thread")
	if !ok {
		return
	}

	thread, err := h.service.GetThread(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"thread": thread}))
}

// HandleCreateThread handles POST /forum/threads
func (h *ForumHandler) HandleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req ThreadRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	thread, err := h.service.CreateThread(r.Context(), principal(r), req.Title, req.Content, req.CategoryID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteCreated(w, utils.Envelope{
		"message": "Thread created successfully",
		"thread":  thread,
	}))
}

// HandleUpdateThread handles PUT /forum/threads/{id}
func (h *ForumHandler) HandleUpdateThread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "thread")
	if !ok {
		return
	}

	var req ThreadUpdateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	thread, err := h.service.UpdateThread(r.Context(), principal(r), id, models.ThreadPatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message": "Thread updated successfully",
		"thread":  thread,
	}))
}

// HandleDeleteThread handles DELETE /forum/threads/{id}
func (h *ForumHandler) HandleDeleteThread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "thread")
	if !ok {
		return
	}

	if err := h.service.DeleteThread(r.Context(), principal(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "Thread deleted successfully"))
}

// Replies

// HandleCreateReply handles POST /forum/replies
func (h *ForumHandler) HandleCreateReply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	reply, err := h.service.CreateReply(r.Context(), principal(r), req.Content, req.ThreadID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteCreated(w, utils.Envelope{
		"message": "Reply created successfully",
		"reply":   reply,
	}))
}

// HandleUpdateReply handles PUT /forum/replies/{id}
func (h *ForumHandler) HandleUpdateReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "reply")
	if !ok {
		return
	}

	var req ReplyUpdateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	reply, err := h.service.UpdateReply(r.Context(), principal(r), id, req.Content)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message": "Reply updated successfully",
		"reply":   reply,
	}))
}

// HandleDeleteReply handles DELETE /forum/replies/{id}
func (h *ForumHandler) HandleDeleteReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "reply")
	if !ok {
		return
	}

	if err := h.service.DeleteReply(r.Context(), principal(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "Reply deleted successfully"))
}
