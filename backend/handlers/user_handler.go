package handlers

import (
	"context"
	"net/http"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// UserUpdateRequest is the body of PUT /users/{id} and PUT /auth/me
type UserUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin member"`
}

func (req UserUpdateRequest) patch() models.UserPatch {
	patch := models.UserPatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := policy.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}

// UserService defines the account management operations
type UserService interface {
	List(ctx context.Context, p *policy.Principal) ([]*models.User, error)
	Get(ctx context.Context, p *policy.Principal, id int64) (*models.User, error)
	Search(ctx context.Context, p *policy.Principal, query string) ([]*models.User, error)
	Update(ctx context.Context, p *policy.Principal, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, p *policy.Principal, id int64) error
}

// UserHandler handles user account requests
type UserHandler struct {
	service UserService
	logger  *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), principal(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"users": users}))
}

// HandleSearch handles GET /projects/users/search?q=
func (h *UserHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Search(r.Context(), principal(r), r.URL.Query().Get("q"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"users": users}))
}

// HandleGet handles GET /users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), principal(r), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"user": user}))
}

// HandleUpdate handles PUT /users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	var req UserUpdateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, err := h.service.Update(r.Context(), principal(r), id, req.patch())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message": "User updated successfully",
		"user":    user,
	}))
}

// HandleDelete handles DELETE /users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteMessage(w, http.StatusOK, "User deleted successfully"))
}
