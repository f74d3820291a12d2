package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/upb/association-hub/backend/internal/observability"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/services"
	"go.uber.org/zap"
)

// AuditEvent represents an event to be audited
type AuditEvent struct {
	Log *models.AuditLog
}

// DropObserver is notified when an event is discarded because the buffer is full
type DropObserver interface {
	AuditEventDropped()
}

// AuditService persists the audit trail through a pool of background workers.
// It implements services.DecisionRecorder.
type AuditService struct {
	auditRepo   repositories.AuditRepository
	logger      *zap.Logger
	dropped     DropObserver
	eventChan   chan *AuditEvent
	workerCount int
	bufferSize  int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	// senders hold the read lock so Stop never closes eventChan under them
	mu      sync.RWMutex
	started bool
	stopped bool
}

// Config holds configuration for the AuditService
type Config struct {
	BufferSize  int // Size of the event buffer channel
	WorkerCount int // Number of concurrent workers
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:  1000,
		WorkerCount: 2,
	}
}

// NewAuditService creates a new AuditService instance
func NewAuditService(auditRepo repositories.AuditRepository, logger *zap.Logger, config Config) *AuditService {
	ctx, cancel := context.WithCancel(context.Background())

	return &AuditService{
		auditRepo:   auditRepo,
		logger:      logger,
		eventChan:   make(chan *AuditEvent, config.BufferSize),
		workerCount: config.WorkerCount,
		bufferSize:  config.BufferSize,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// WithDropObserver registers o to be told about dropped events
func (s *AuditService) WithDropObserver(o DropObserver) *AuditService {
	s.dropped = o
	return s
}

// Start starts the background workers
func (s *AuditService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("audit service already started")
	}

	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.started = true
	s.logger.Info("started audit service",
		zap.Int("worker_count", s.workerCount),
		zap.Int("buffer_size", s.bufferSize))

	return nil
}

// Stop gracefully stops the audit service
// Waits for all pending events to be processed
func (s *AuditService) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("audit service not started")
	}
	s.stopped = true
	s.logger.Info("stopping audit service", zap.Int("pending_events", len(s.eventChan)))
	close(s.eventChan)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("audit service stopped gracefully")
		s.cancel()
		return nil
	case <-time.After(timeout):
		s.cancel()
		return fmt.Errorf("audit service stop timeout after %v", timeout)
	}
}

// LogEvent logs an event asynchronously (non-blocking)
// Returns immediately, event is processed in background
func (s *AuditService) LogEvent(event *AuditEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started || s.stopped {
		return fmt.Errorf("audit service not started")
	}

	select {
	case s.eventChan <- event:
		return nil
	default:
		s.logger.Warn("audit event channel full, dropping event",
			zap.String("action", string(event.Log.Action)),
			zap.String("resource_type", event.Log.ResourceType))
		if s.dropped != nil {
			s.dropped.AuditEventDropped()
		}
		return fmt.Errorf("audit event buffer full")
	}
}

func (s *AuditService) worker(id int) {
	defer s.wg.Done()

	s.logger.Debug("audit worker started", zap.Int("worker_id", id))

	for event := range s.eventChan {
		if err := s.processEvent(event); err != nil {
			s.logger.Error("failed to process audit event",
				zap.Int("worker_id", id),
				zap.Error(err),
				zap.String("action", string(event.Log.Action)),
				zap.String("resource_type", event.Log.ResourceType))
		}
	}

	s.logger.Debug("audit worker stopped", zap.Int("worker_id", id))
}

func (s *AuditService) processEvent(event *AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.auditRepo.Insert(ctx, event.Log); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// GetStats returns statistics about the audit service
func (s *AuditService) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		BufferSize:    s.bufferSize,
		PendingEvents: len(s.eventChan),
		WorkerCount:   s.workerCount,
		Started:       s.started && !s.stopped,
	}
}

// Stats represents audit service statistics
type Stats struct {
	BufferSize    int
	PendingEvents int
	WorkerCount   int
	Started       bool
}

// RecordDecision queues an entry for every decision on a mutating action.
// Reads and listings are not audited.
func (s *AuditService) RecordDecision(ctx context.Context, p *policy.Principal, action policy.Action, target policy.Target, resourceID int64, d policy.Decision) {
	if action == policy.ActionRead || action == policy.ActionList {
		return
	}

	log := models.NewAuditLog(models.AuditAction(action), string(target.Kind))
	if p != nil {
		log.WithActor(p.ID)
	}
	if resourceID > 0 {
		log.WithResource(resourceID)
	}
	if !d.Allowed {
		log.WithDenial(d.Reason)
	}
	if action == policy.ActionAddMember || action == policy.ActionRemoveMember {
		log.WithDetails(map[string]interface{}{"member_id": target.SubjectUserID})
	}

	s.Record(ctx, log)
}

// Record queues log, stamping it with the request metadata carried by ctx.
// Failures are logged and never reach the caller.
func (s *AuditService) Record(ctx context.Context, log *models.AuditLog) {
	if log.RequestID == "" {
		meta := observability.RequestMetaFromContext(ctx)
		log.WithRequest(meta.RequestID, meta.IPAddress, meta.UserAgent)
	}

	if err := s.LogEvent(&AuditEvent{Log: log}); err != nil {
		s.logger.Debug("audit event not queued", zap.Error(err))
	}
}

// List returns audit entries matching filter. Only administrators may read the trail.
func (s *AuditService) List(ctx context.Context, p *policy.Principal, filter models.AuditFilter) ([]*models.AuditLog, error) {
	if d := policy.Authorize(p, policy.ActionList, policy.Target{Kind: policy.KindAuditLog}); !d.Allowed {
		return nil, services.Denied(d, services.ErrForbidden.Message)
	}

	logs, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, services.WrapInternal("failed to list audit logs", err)
	}
	return logs, nil
}
