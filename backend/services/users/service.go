// Package users manages member accounts.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/upb/association-hub/backend/auth"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/services"
	"go.uber.org/zap"
)

// Service handles account reads and updates
type Service struct {
	repo   repositories.UserRepository
	guard  *services.Guard
	logger *zap.Logger
}

// NewService creates a user service
func NewService(repo repositories.UserRepository, guard *services.Guard, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// List returns every account. Admins only.
func (s *Service) List(ctx context.Context, p *policy.Principal) ([]*models.User, error) {
	if err := s.guard.Check(ctx, p, policy.ActionList, policy.Target{Kind: policy.KindUser}, 0, services.ErrForbidden.Message); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list users", err)
	}
	return users, nil
}

// Get returns one account to any authenticated principal
func (s *Service) Get(ctx context.Context, p *policy.Principal, id int64) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionRead, policy.NewTarget(policy.KindUser, user.ID), user.ID, services.ErrForbidden.Message); err != nil {
		return nil, err
	}
	return user, nil
}

// Search matches accounts by name or email for member pickers
func (s *Service) Search(ctx context.Context, p *policy.Principal, query string) ([]*models.User, error) {
	if p == nil {
		return nil, services.ErrUnauthorized
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.ErrSearchQueryRequired
	}

	users, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, services.WrapInternal("failed to search users", err)
	}
	return users, nil
}

// Update applies patch to the account. Changing the role additionally requires admin.
func (s *Service) Update(ctx context.Context, p *policy.Principal, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	target := policy.NewTarget(policy.KindUser, user.ID)
	if err := s.guard.Check(ctx, p, policy.ActionUpdate, target, user.ID, "You do not have permission to update this user"); err != nil {
		return nil, err
	}
	if patch.Role != nil {
		if err := s.guard.Check(ctx, p, policy.ActionUpdateRole, target, user.ID, "You do not have permission to change role"); err != nil {
			return nil, err
		}
	}

	record := models.UserPatchRecord{Name: patch.Name, Email: patch.Email, Role: patch.Role}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, services.WrapInternal("failed to update user", err)
		}
		record.PasswordHash = &hash
	}

	updated, err := s.repo.Update(ctx, id, record)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, services.ErrDuplicateEmail
		}
		return nil, services.FromRepository(err, services.ErrUserNotFound, "failed to update user")
	}

	s.logger.Info("user updated", zap.Int64("user_id", id), zap.Int64("actor_id", p.ID))
	return updated, nil
}

// Delete removes the account. Allowed for the account itself and admins.
func (s *Service) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	user, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, p, policy.ActionDelete, policy.NewTarget(policy.KindUser, user.ID), user.ID, "You do not have permission to delete this user"); err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return services.WrapInternal("failed to delete user", err)
	}
	if !ok {
		return services.ErrUserNotFound
	}

	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.Int64("actor_id", p.ID))
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrUserNotFound, "failed to load user")
	}
	return user, nil
}
