// Package events manages association events.
package events

import (
	"context"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/services"
	"go.uber.org/zap"
)

// DefaultUpcomingLimit is used when the caller does not ask for a size
const DefaultUpcomingLimit = 10

// Service handles event reads and owner-checked mutations
type Service struct {
	repo   repositories.EventRepository
	guard  *services.Guard
	logger *zap.Logger
}

// NewService creates an event service
func NewService(repo repositories.EventRepository, guard *services.Guard, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// List returns all events ordered by start date
func (s *Service) List(ctx context.Context) ([]*models.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list events", err)
	}
	return events, nil
}

// Upcoming returns at most limit future events. Non-positive limits fall back
// to DefaultUpcomingLimit.
func (s *Service) Upcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}
	events, err := s.repo.ListUpcoming(ctx, limit)
	if err != nil {
		return nil, services.WrapInternal("failed to list upcoming events", err)
	}
	return events, nil
}

// Get returns one event
func (s *Service) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrEventNotFound, "failed to load event")
	}
	return event, nil
}

// Create stores an event owned by the principal
func (s *Service) Create(ctx context.Context, p *policy.Principal, in models.EventInput) (*models.Event, error) {
	if err := s.guard.Check(ctx, p, policy.ActionCreate, policy.Target{Kind: policy.KindEvent}, 0, services.ErrForbidden.Message); err != nil {
		return nil, err
	}
	if in.EndDate.Before(in.StartDate) {
		return nil, services.ErrInvalidDateRange
	}

	event, err := s.repo.Create(ctx, in, p.ID)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrEventNotFound, "failed to create event")
	}

	s.logger.Info("event created", zap.Int64("event_id", event.ID), zap.Int64("actor_id", p.ID))
	return event, nil
}

// Update applies patch. Allowed for the creator and admins.
func (s *Service) Update(ctx context.Context, p *policy.Principal, id int64, patch models.EventPatch) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Check(ctx, p, policy.ActionUpdate, policy.NewTarget(policy.KindEvent, event.CreatedBy), id, "You do not have permission to update this event"); err != nil {
		return nil, err
	}

	start, end := event.StartDate, event.EndDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	if patch.EndDate != nil {
		end = *patch.EndDate
	}
	if end.Before(start) {
		return nil, services.ErrInvalidDateRange
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, services.FromRepository(err, services.ErrEventNotFound, "failed to update event")
	}

	s.logger.Info("event updated", zap.Int64("event_id", id), zap.Int64("actor_id", p.ID))
	return updated, nil
}

// Delete removes the event. Allowed for the creator and admins.
func (s *Service) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	event, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Check(ctx, p, policy.ActionDelete, policy.NewTarget(policy.KindEvent, event.CreatedBy), id, "You do not have permission to delete this event"); err != nil {
		return err
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return services.WrapInternal("failed to delete event", err)
	}
	if !ok {
		return services.ErrEventNotFound
	}

	s.logger.Info("event deleted", zap.Int64("event_id", id), zap.Int64("actor_id", p.ID))
	return nil
}
