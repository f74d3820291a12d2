package services

import (
	"context"
	"errors"
	"strings"

	"github.com/upb/association-hub/backend/auth"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"go.uber.org/zap"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(p *policy.Principal) (string, error)
}

// AuditRecorder queues an audit entry. Implementations never fail the caller.
type AuditRecorder interface {
	Record(ctx context.Context, log *models.AuditLog)
}

// RegisterInput holds the fields of a registration request
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is a signed session token and the account it belongs to
type LoginResult struct {
	Token string
	User  *models.User
}

// AuthService handles registration and credential checks
type AuthService struct {
	users  repositories.UserRepository
	tokens TokenIssuer
	audit  AuditRecorder
	logger *zap.Logger
}

// NewAuthService creates an AuthService. audit may be nil.
func NewAuthService(users repositories.UserRepository, tokens TokenIssuer, audit AuditRecorder, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		audit:  audit,
		logger: logger,
	}
}

// Register creates a member account. The role is always member.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(in.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, WrapInternal("failed to look up user", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, WrapInternal("failed to register user", err)
	}

	user := models.NewUser(strings.TrimSpace(in.Name), email, hash)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, WrapInternal("failed to register user", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	s.record(ctx, models.NewAuditLog(models.AuditActionRegister, string(policy.KindUser)).
		WithActor(user.ID).
		WithResource(user.ID))

	return user, nil
}

// Login checks credentials and issues a session token. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.loginFailed(ctx, email, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, WrapInternal("failed to look up user", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("stored password hash rejected", zap.Int64("user_id", user.ID), zap.Error(err))
		}
		s.loginFailed(ctx, email, &user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return nil, WrapInternal("failed to issue token", err)
	}

	s.record(ctx, models.NewAuditLog(models.AuditActionLogin, string(policy.KindUser)).
		WithActor(user.ID).
		WithResource(user.ID))

	return &LoginResult{Token: token, User: user}, nil
}

// Me loads the account of the authenticated principal
func (s *AuthService) Me(ctx context.Context, p *policy.Principal) (*models.User, error) {
	if p == nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, FromRepository(err, ErrUserNotFound, "failed to load user")
	}
	return user, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string, userID *int64) {
	log := models.NewAuditLog(models.AuditActionLoginFailed, string(policy.KindUser)).
		WithDenial("invalid credentials").
		WithDetails(map[string]string{"email": email})
	if userID != nil {
		log.WithResource(*userID)
	}
	s.record(ctx, log)
}

func (s *AuthService) record(ctx context.Context, log *models.AuditLog) {
	if s.audit != nil {
		s.audit.Record(ctx, log)
	}
}
