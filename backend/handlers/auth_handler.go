package handlers

import (
	"context"
	"net/http"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/services"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService defines the account operations used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Me(ctx context.Context, p *policy.Principal) (*models.User, error)
}

// ProfileUpdater applies profile changes on behalf of a principal
type ProfileUpdater interface {
	Update(ctx context.Context, p *policy.Principal, id int64, patch models.UserPatch) (*models.User, error)
}

// AuthHandler handles registration, login and the caller's own profile
type AuthHandler struct {
	service  AuthService
	profiles ProfileUpdater
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthService, profiles ProfileUpdater, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		profiles: profiles,
		logger:   logger,
	}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteCreated(w, utils.Envelope{
		"message": "User registered successfully",
		"user":    user,
	}))
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	}))
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), principal(r))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"user": user}))
}

// HandleUpdateMe handles PUT /auth/me
func (h *AuthHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if p == nil {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return
	}

	var req UserUpdateRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	user, err := h.profiles.Update(r.Context(), p, p.ID, req.patch())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{
		"message": "User updated successfully",
		"user":    user,
	}))
}
