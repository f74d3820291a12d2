package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionUpdate       AuditAction = "update"
	AuditActionDelete       AuditAction = "delete"
	AuditActionAddMember    AuditAction = "add-member"
	AuditActionRemoveMember AuditAction = "remove-member"
	AuditActionUpdateRole   AuditAction = "update-role"
	AuditActionRegister     AuditAction = "register"
	AuditActionLogin        AuditAction = "login"
	AuditActionLoginFailed  AuditAction = "login_failed"
)

// AuditLog records one authorization decision on a mutation, or an
// authentication event. Denied attempts are recorded alongside allowed ones.
type AuditLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ActorID      *int64          `json:"actor_id,omitempty" db:"actor_id"`
	Action       AuditAction     `json:"action" db:"action"`
	ResourceType string          `json:"resource_type" db:"resource_type"`
	ResourceID   *int64          `json:"resource_id,omitempty" db:"resource_id"`
	Allowed      bool            `json:"allowed" db:"allowed"`
	Reason       string          `json:"reason,omitempty" db:"reason"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress    string          `json:"ip_address" db:"ip_address"`
	UserAgent    string          `json:"user_agent" db:"user_agent"`
	RequestID    string          `json:"request_id" db:"request_id"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance for an allowed action
func NewAuditLog(action AuditAction, resourceType string) *AuditLog {
	return &AuditLog{
		ID:           uuid.New(),
		Action:       action,
		ResourceType: resourceType,
		Allowed:      true,
		Timestamp:    time.Now(),
	}
}

// WithActor sets the acting user
func (a *AuditLog) WithActor(userID int64) *AuditLog {
	a.ActorID = &userID
	return a
}

// WithResource sets the resource ID
func (a *AuditLog) WithResource(resourceID int64) *AuditLog {
	a.ResourceID = &resourceID
	return a
}

// WithDenial marks the entry as a refused attempt
func (a *AuditLog) WithDenial(reason string) *AuditLog {
	a.Allowed = false
	a.Reason = reason
	return a
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequest sets request metadata
func (a *AuditLog) WithRequest(requestID, ipAddress, userAgent string) *AuditLog {
	a.RequestID = requestID
	a.IPAddress = ipAddress
	a.UserAgent = userAgent
	return a
}

// AuditFilter narrows an audit log listing
type AuditFilter struct {
	ActorID      *int64
	ResourceType string
	OnlyDenied   bool
	Limit        int
	Offset       int
}
