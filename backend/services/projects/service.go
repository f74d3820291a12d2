// Package projects manages projects and their member rosters.
package projects

import (
	"context"
	"errors"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/services"
	"go.uber.org/zap"
)

// Service handles projects and membership
type Service struct {
	repo   repositories.ProjectRepository
	txMgr  repositories.TransactionManager
	guard  *services.Guard
	logger *zap.Logger
}

// NewService creates a project service
func NewService(repo repositories.ProjectRepository, txMgr repositories.TransactionManager, guard *services.Guard, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		txMgr:  txMgr,
		guard:  guard,
		logger: logger,
	}
}

// List returns all projects, newest first
func (s *Service) List(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list projects", err)
	}
	return projects, nil
}

// ListMine returns the projects the principal created or belongs to
func (s *Service) ListMine(ctx context.Context, p *policy.Principal) ([]*models.Project, error) {
	if p == nil {
		return nil, services.ErrUnauthorized
	}
	projects, err := s.repo.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, services.WrapInternal("failed to list projects", err)
	}
	return projects, nil
}

// Get returns a project with the ids of its members
func (s *Service) Get(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.MemberIDs(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load project members", err)
	}
	project.Members = members
	return project, nil
}

// Create stores the project and enrolls its creator in one transaction
func (s *Service) Create(ctx context.Context, p *policy.Principal, in models.ProjectInput) (*models.Project, error) {
	if err := s.guard.Check(ctx, p, policy.ActionCreate, policy.Target{Kind: policy.KindProject}, 0, services.ErrForbidden.Message); err != nil {
		return nil, err
	}

	project, err := services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) (*models.Project, error) {
		project, err := s.repo.Create(ctx, in, p.ID)
		if err != nil {
			return nil, err
		}
		if err := s.repo.AddMember(ctx, project.ID, p.ID); err != nil {
			return nil, err
		}
		project.Members = []int64{p.ID}
		return project, nil
	})
	if err != nil {
		return nil, services.FromRepository(err, services.ErrProjectNotFound, "failed to create project")
	}

	s.logger.Info("project created", zap.Int64("project_id", project.ID), zap.Int64("actor_id", p.ID))
	return project, nil
}

// Update applies patch. Allowed for the creator and admins.
func (s *Service) Update(ctx context.Context, p *policy.Principal, id int64, patch models.ProjectPatch) (*models.Project, error) {
	project, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionUpdate, policy.NewTarget(policy.KindProject, project.CreatedBy), id, "You do not have permission to update this project"); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrProjectNotFound, "failed to update project")
	}

	s.logger.Info("project updated", zap.Int64("project_id", id), zap.Int64("actor_id", p.ID))
	return updated, nil
}

// Delete removes the project and, through the schema, its roster
func (s *Service) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	project, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, p, policy.ActionDelete, policy.NewTarget(policy.KindProject, project.CreatedBy), id, "You do not have permission to delete this project"); err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return services.WrapInternal("failed to delete project", err)
	}
	if !ok {
		return services.ErrProjectNotFound
	}

	s.logger.Info("project deleted", zap.Int64("project_id", id), zap.Int64("actor_id", p.ID))
	return nil
}

// Members returns the roster of an existing project
func (s *Service) Members(ctx context.Context, projectID int64) ([]*models.ProjectMember, error) {
	if _, err := s.load(ctx, projectID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, services.WrapInternal("failed to list project members", err)
	}
	return members, nil
}

// AddMember enrolls userID. Re-adding an existing member succeeds.
func (s *Service) AddMember(ctx context.Context, p *policy.Principal, projectID, userID int64) error {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}

	target := policy.Target{Kind: policy.KindProject, OwnerID: project.CreatedBy, SubjectUserID: userID}
	if err := s.guard.Check(ctx, p, policy.ActionAddMember, target, projectID, "You do not have permission to add members to this project"); err != nil {
		return err
	}

	if err := s.repo.AddMember(ctx, projectID, userID); err != nil {
		if errors.Is(err, repositories.ErrReferenceMissing) {
			return services.WrapError(services.ErrorTypeValidation, services.ErrAddMemberFailed.Message, err)
		}
		return services.WrapInternal("failed to add project member", err)
	}

	s.logger.Info("project member added",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", userID),
		zap.Int64("actor_id", p.ID))
	return nil
}

// RemoveMember drops userID from the roster. Members may always remove themselves.
func (s *Service) RemoveMember(ctx context.Context, p *policy.Principal, projectID, userID int64) error {
	project, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}

	target := policy.Target{Kind: policy.KindProject, OwnerID: project.CreatedBy, SubjectUserID: userID}
	if err := s.guard.Check(ctx, p, policy.ActionRemoveMember, target, projectID, "You do not have permission to remove members from this project"); err != nil {
		return err
	}

	ok, err := s.repo.RemoveMember(ctx, projectID, userID)
	if err != nil {
		return services.WrapInternal("failed to remove project member", err)
	}
	if !ok {
		return services.ErrRemoveMemberFailed
	}

	s.logger.Info("project member removed",
		zap.Int64("project_id", projectID),
		zap.Int64("user_id", userID),
		zap.Int64("actor_id", p.ID))
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrProjectNotFound, "failed to load project")
	}
	return project, nil
}
