// Package forum manages discussion categories, threads and replies.
package forum

import (
	"context"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/services"
	"go.uber.org/zap"
)

// Service handles the forum. Categories are admin-managed; threads and
// replies belong to their authors.
type Service struct {
	repo   repositories.ForumRepository
	txMgr  repositories.TransactionManager
	guard  *services.Guard
	logger *zap.Logger
}

// NewService creates a forum service
func NewService(repo repositories.ForumRepository, txMgr repositories.TransactionManager, guard *services.Guard, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		txMgr:  txMgr,
		guard:  guard,
		logger: logger,
	}
}

// === Categories ===

func (s *Service) ListCategories(ctx context.Context) ([]*models.ForumCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list categories", err)
	}
	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*models.ForumCategory, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrCategoryNotFound, "failed to load category")
	}
	return category, nil
}

// CategoryThreads returns the category with its threads, newest first
func (s *Service) CategoryThreads(ctx context.Context, id int64) (*models.ForumCategory, []*models.ForumThread, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	threads, err := s.repo.ListThreads(ctx, id)
	if err != nil {
		return nil, nil, services.WrapInternal("failed to list threads", err)
	}
	return category, threads, nil
}

func (s *Service) CreateCategory(ctx context.Context, p *policy.Principal, name string, description *string) (*models.ForumCategory, error) {
	if err := s.guard.Check(ctx, p, policy.ActionCreate, policy.Target{Kind: policy.KindForumCategory}, 0, "Only administrators can create categories"); err != nil {
		return nil, err
	}

	category, err := s.repo.CreateCategory(ctx, name, description)
	if err != nil {
		return nil, services.WrapInternal("failed to create category", err)
	}

	s.logger.Info("forum category created", zap.Int64("category_id", category.ID), zap.Int64("actor_id", p.ID))
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, p *policy.Principal, id int64, patch models.CategoryPatch) (*models.ForumCategory, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionUpdate, policy.Target{Kind: policy.KindForumCategory}, id, "Only administrators can update categories"); err != nil {
		return nil, err
	}

	category, err := s.repo.UpdateCategory(ctx, id, patch)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrCategoryNotFound, "failed to update category")
	}

	s.logger.Info("forum category updated", zap.Int64("category_id", id), zap.Int64("actor_id", p.ID))
	return category, nil
}

// DeleteCategory removes the category, its threads and their replies atomically
func (s *Service) DeleteCategory(ctx context.Context, p *policy.Principal, id int64) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.guard.Check(ctx, p, policy.ActionDelete, policy.Target{Kind: policy.KindForumCategory}, id, "Only administrators can delete categories"); err != nil {
		return err
	}

	err := services.WithTransaction(ctx, s.txMgr, func(ctx context.Context, _ repositories.Transaction) error {
		ok, err := s.repo.DeleteCategory(ctx, id)
		if err != nil {
			return services.WrapInternal("failed to delete category", err)
		}
		if !ok {
			return services.ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		if services.GetErrorType(err) == "" {
			return services.WrapInternal("failed to delete category", err)
		}
		return err
	}

	s.logger.Info("forum category deleted", zap.Int64("category_id", id), zap.Int64("actor_id", p.ID))
	return nil
}

// === Threads ===

// GetThread returns the thread with its author and replies
func (s *Service) GetThread(ctx context.Context, id int64) (*models.ForumThread, error) {
	thread, err := s.loadThread(ctx, id)
	if err != nil {
		return nil, err
	}

	replies, err := s.repo.ListReplies(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to list replies", err)
	}
	thread.Replies = replies
	return thread, nil
}

// CreateThread opens a thread in an existing category
func (s *Service) CreateThread(ctx context.Context, p *policy.Principal, title, content string, categoryID int64) (*models.ForumThread, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionCreate, policy.Target{Kind: policy.KindForumThread}, 0, services.ErrForbidden.Message); err != nil {
		return nil, err
	}

	thread, err := s.repo.CreateThread(ctx, title, content, categoryID, p.ID)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrCategoryNotFound, "failed to create thread")
	}

	s.logger.Info("forum thread created", zap.Int64("thread_id", thread.ID), zap.Int64("actor_id", p.ID))
	return thread, nil
}

func (s *Service) UpdateThread(ctx context.Context, p *policy.Principal, id int64, patch models.ThreadPatch) (*models.ForumThread, error) {
	thread, err := s.loadThread(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionUpdate, policy.NewTarget(policy.KindForumThread, thread.CreatedBy), id, "You do not have permission to update this thread"); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateThread(ctx, id, patch)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrThreadNotFound, "failed to update thread")
	}

	s.logger.Info("forum thread updated", zap.Int64("thread_id", id), zap.Int64("actor_id", p.ID))
	return updated, nil
}

func (s *Service) DeleteThread(ctx context.Context, p *policy.Principal, id int64) error {
	thread, err := s.loadThread(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, p, policy.ActionDelete, policy.NewTarget(policy.KindForumThread, thread.CreatedBy), id, "You do not have permission to delete this thread"); err != nil {
		return err
	}

	ok, err := s.repo.DeleteThread(ctx, id)
	if err != nil {
		return services.WrapInternal("failed to delete thread", err)
	}
	if !ok {
		return services.ErrThreadNotFound
	}

	s.logger.Info("forum thread deleted", zap.Int64("thread_id", id), zap.Int64("actor_id", p.ID))
	return nil
}

func (s *Service) loadThread(ctx context.Context, id int64) (*models.ForumThread, error) {
	thread, err := s.repo.GetThread(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrThreadNotFound, "failed to load thread")
	}
	return thread, nil
}

// === Replies ===

// CreateReply answers an existing thread
func (s *Service) CreateReply(ctx context.Context, p *policy.Principal, content string, threadID int64) (*models.ForumReply, error) {
	if _, err := s.loadThread(ctx, threadID); err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionCreate, policy.Target{Kind: policy.KindForumReply}, 0, services.ErrForbidden.Message); err != nil {
		return nil, err
	}

	reply, err := s.repo.CreateReply(ctx, content, threadID, p.ID)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrThreadNotFound, "failed to create reply")
	}

	s.logger.Info("forum reply created", zap.Int64("reply_id", reply.ID), zap.Int64("actor_id", p.ID))
	return reply, nil
}

func (s *Service) UpdateReply(ctx context.Context, p *policy.Principal, id int64, content string) (*models.ForumReply, error) {
	reply, err := s.loadReply(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionUpdate, policy.NewTarget(policy.KindForumReply, reply.CreatedBy), id, "You do not have permission to update this reply"); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateReply(ctx, id, content)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrReplyNotFound, "failed to update reply")
	}

	s.logger.Info("forum reply updated", zap.Int64("reply_id", id), zap.Int64("actor_id", p.ID))
	return updated, nil
}

func (s *Service) DeleteReply(ctx context.Context, p *policy.Principal, id int64) error {
	reply, err := s.loadReply(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, p, policy.ActionDelete, policy.NewTarget(policy.KindForumReply, reply.CreatedBy), id, "You do not have permission to delete this reply"); err != nil {
		return err
	}

	ok, err := s.repo.DeleteReply(ctx, id)
	if err != nil {
		return services.WrapInternal("failed to delete reply", err)
	}
	if !ok {
		return services.ErrReplyNotFound
	}

	s.logger.Info("forum reply deleted", zap.Int64("reply_id", id), zap.Int64("actor_id", p.ID))
	return nil
}

func (s *Service) loadReply(ctx context.Context, id int64) (*models.ForumReply, error) {
	reply, err := s.repo.GetReply(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrReplyNotFound, "failed to load reply")
	}
	return reply, nil
}
