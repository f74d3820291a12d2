package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/utils"
	"go.uber.org/zap"
)

// AuditReader lists the audit trail
type AuditReader interface {
	List(ctx context.Context, p *policy.Principal, filter models.AuditFilter) ([]*models.AuditLog, error)
}

// AuditHandler exposes the audit trail to administrators
type AuditHandler struct {
	service AuditReader
	logger  *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service AuditReader, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /audit/logs?actor_id=&resource_type=&denied=&limit=&offset=
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, fields := parseAuditFilter(r)
	if len(fields) > 0 {
		writeResponse(w, h.logger, utils.WriteBadRequest(w, "Invalid request data", fields))
		return
	}

	logs, err := h.service.List(r.Context(), principal(r), filter)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeResponse(w, h.logger, utils.WriteOK(w, utils.Envelope{"logs": logs}))
}

func parseAuditFilter(r *http.Request) (models.AuditFilter, map[string]string) {
	q := r.URL.Query()
	filter := models.AuditFilter{ResourceType: q.Get("resource_type")}
	fields := make(map[string]string)

	if v := q.Get("actor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			fields["actor_id"] = "must be a positive integer"
		} else {
			filter.ActorID = &id
		}
	}
	if v := q.Get("denied"); v != "" {
		denied, err := strconv.ParseBool(v)
		if err != nil {
			fields["denied"] = "must be true or false"
		}
		filter.OnlyDenied = denied
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				fields[name] = "must be a non-negative integer"
				continue
			}
			*dst = n
		}
	}

	return filter, fields
}
