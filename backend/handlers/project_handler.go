package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// ProjectRequest is the body of POST /projects
type ProjectRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// ProjectUpdateRequest is the body of PUT /projects/{id}
type ProjectUpdateRequest struct {
	Title       *string                    `json:"title" validate:"omitempty,min=1"`
	Description models.Nullable[string]    `json:"description"`
	Deadline    models.Nullable[time.Time] `json:"deadline"`
}

// MemberRequest is the body of POST /projects/{id}/members
type MemberRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

// ProjectService defines the project and roster operations
type ProjectService interface {
	List(ctx context.Context) ([]*models.Project, error)
	ListMine(ctx context.Context, p *policy.Principal) ([]*models.Project, error)
	Get(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, p *policy.Principal, in models.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, p *policy.Principal, id int64, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, p *policy.Principal, id int64) error
	Members(ctx context.Context, projectID int64) ([]*models.ProjectMember, error)
	AddMember(ctx context.Context, p *policy.Principal, projectID, userID int64) error
	RemoveMember(ctx context.Context, p *policy.Principal, projectID, userID int64) error
}

// ProjectHandler handles project requests
type ProjectHandler struct {
	service ProjectService
	logger  *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(service ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"projects": projects}))
}

// HandleListMine handles GET /projects/my-projects
func (h *ProjectHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListMine(r.Context(), principal(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"projects": projects}))
}

// HandleGet handles GET /projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"project": project}))
}

// HandleCreate handles POST /projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	project, err := h.service.Create(r.Context(), principal(r), models.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteCreated(w, utils.Envelope{
		"message": "Project created successfully",
		"project": project,
	}))
}

// HandleUpdate handles PUT /projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	var req ProjectUpdateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	project, err := h.service.Update(r.Context(), principal(r), id, models.ProjectPatch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message": "Project updated successfully",
		"project": project,
	}))
}

// HandleDelete handles DELETE /projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "Project deleted successfully"))
}

// HandleMembers handles GET /projects/{id}/members
func (h *ProjectHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	members, err := h.service.Members(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"members": members}))
}

// HandleAddMember handles POST /projects/{id}/members
func (h *ProjectHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "project")
	if !ok {
		return
	}

	var req MemberRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	if err := h.service.AddMember(r.Context(), principal(r), id, req.UserID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "Member added to project successfully"))
}

// HandleRemoveMember handles DELETE /projects/{id}/members/{userId}
func (h *ProjectHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, okProject := parseID(r, "id")
	userID, okUser := parseID(r, "userId")
	if !okProject || !okUser {
		writeResponse(w, h.logger, utils.WriteError(w, http.StatusBadRequest, "Invalid project ID or user ID", nil))
		return
	}

	if err := h.service.RemoveMember(r.Context(), principal(r), projectID, userID); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "Member removed from project successfully"))
}
