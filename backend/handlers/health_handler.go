package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/upb/association-hub/backend/services/audit"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// AuditStats reports the state of the audit trail writer
type AuditStats interface {
	GetStats() audit.Stats
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	db     *sql.DB
	audit  AuditStats
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *sql.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// WithAuditStats adds the audit writer to the readiness checks
func (h *HealthHandler) WithAuditStats(stats AuditStats) *HealthHandler {
	h.audit = stats
	return h
}

// HandleHealth handles GET /api/health and GET /healthz.
// Liveness only: returns 200 whenever the process is serving.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, h.logger, utils.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   "API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}))
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status := "ok"
	httpStatus := http.StatusOK

	if err := h.checkDatabase(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		checks["database"] = "unhealthy"
		status = "unavailable"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	if h.audit != nil {
		stats := h.audit.GetStats()
		checks["audit_pending"] = strconv.Itoa(stats.PendingEvents) + "/" + strconv.Itoa(stats.BufferSize)
		if stats.Started {
			checks["audit"] = "healthy"
		} else {
			checks["audit"] = "stopped"
			status = "unavailable"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeResponse(w, h.logger, utils.WriteJSON(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}))
}

func (h *HealthHandler) checkDatabase(ctx context.Context) error {
	if h.db == nil {
		return sql.ErrConnDone
	}
	if err := h.db.PingContext(ctx); err != nil {
		return err
	}

	var result int
	return h.db.QueryRowContext(ctx, "SELECT 1").Scan(&result)
}
