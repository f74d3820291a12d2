package policy

import "fmt"

// Role is the coarse permission level carried by every principal.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole maps a stored or token-carried role to a Role. Unknown values are rejected.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated actor of a request, reconstructed from a
// verified session token. A nil *Principal is an anonymous caller.
type Principal struct {
	ID    int64
	Email string
	Role  Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Action is the kind of operation being attempted.
type Action string

const (
	ActionRead         Action = "read"
	ActionList         Action = "list"
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionAddMember    Action = "add-member"
	ActionRemoveMember Action = "remove-member"
	ActionUpdateRole   Action = "update-role"
)

// ResourceKind names the class of resource an action targets.
type ResourceKind string

const (
	KindEvent         ResourceKind = "event"
	KindProject       ResourceKind = "project"
	KindForumCategory ResourceKind = "forum_category"
	KindForumThread   ResourceKind = "forum_thread"
	KindForumReply    ResourceKind = "forum_reply"
	KindUser          ResourceKind = "user"
	KindAuditLog      ResourceKind = "audit_log"
)

// Target describes the resource instance. OwnerID is the creator (created_by),
// or the account id itself for KindUser. SubjectUserID is only meaningful for
// ActionRemoveMember and names the member being removed.
type Target struct {
	Kind          ResourceKind
	OwnerID       int64
	SubjectUserID int64
}

// NewTarget builds a target for an owned resource.
func NewTarget(kind ResourceKind, ownerID int64) Target {
	return Target{Kind: kind, OwnerID: ownerID}
}

// Decision is the outcome of Authorize. Reason is empty when Allowed.
// Unauthenticated marks denials caused by a missing principal.
type Decision struct {
	Allowed         bool
	Reason          string
	Unauthenticated bool
}

// Deny reasons surfaced to clients.
const (
	ReasonAuthRequired    = "authentication required"
	ReasonAdminRequired   = "admin privileges required"
	ReasonNotOwner        = "not the owner or admin"
	ReasonNotOwnerOrSelf  = "not the owner, admin, or the member themself"
	ReasonNotAccountOwner = "not the account owner or admin"
	ReasonUnsupported     = "action not supported for resource"
)
