package services

import (
	"context"

	"github.com/upb/association-hub/backend/internal/policy"
)

// DecisionRecorder observes authorization decisions. The audit trail and the
// metrics collector both implement it.
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, p *policy.Principal, action policy.Action, target policy.Target, resourceID int64, d policy.Decision)
}

// Guard is the single entry point services use to consult the policy
type Guard struct {
	recorders []DecisionRecorder
}

// NewGuard creates a guard reporting every decision to recorders
func NewGuard(recorders ...DecisionRecorder) *Guard {
	return &Guard{recorders: recorders}
}

// Check authorizes action on target. resourceID is zero when the resource
// does not exist yet. A denial is returned as a DomainError; denyMessage is the
// client-facing text of a forbidden response.
func (g *Guard) Check(ctx context.Context, p *policy.Principal, action policy.Action, target policy.Target, resourceID int64, denyMessage string) error {
	d := policy.Authorize(p, action, target)
	if g != nil {
		for _, r := range g.recorders {
			r.RecordDecision(ctx, p, action, target, resourceID, d)
		}
	}
	if !d.Allowed {
		return Denied(d, denyMessage)
	}
	return nil
}
