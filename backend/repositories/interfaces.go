package repositories

import (
	"context"
	"errors"

	"github.com/upb/association-hub/backend/models"
)

var (
	// ErrNotFound is returned when a keyed lookup or update matches no row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")

	// ErrReferenceMissing is returned when a foreign key points at a missing row
	ErrReferenceMissing = errors.New("referenced record does not exist")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns a context carrying the transaction. Repository calls made
	// with it run inside the transaction.
	Context() context.Context
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create inserts the user and fills in its ID and timestamps
	Create(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns all users, newest first
	List(ctx context.Context) ([]*models.User, error)

	// Search matches name or email case-insensitively, ordered by name
	Search(ctx context.Context, query string) ([]*models.User, error)

	// Update applies the provided fields and refreshes updated_at
	Update(ctx context.Context, id int64, patch models.UserPatchRecord) (*models.User, error)

	// Delete reports whether a row was removed
	Delete(ctx context.Context, id int64) (bool, error)
}

// EventRepository handles event data operations
type EventRepository interface {
	// List returns all events ordered by start date
	List(ctx context.Context) ([]*models.Event, error)

	// ListUpcoming returns at most limit events starting after now
	ListUpcoming(ctx context.Context, limit int) ([]*models.Event, error)

	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, in models.EventInput, ownerID int64) (*models.Event, error)
	Update(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProjectRepository handles project and membership data operations
type ProjectRepository interface {
	// List returns all projects, newest first
	List(ctx context.Context) ([]*models.Project, error)

	// ListByUser returns projects the user created or belongs to
	ListByUser(ctx context.Context, userID int64) ([]*models.Project, error)

	GetByID(ctx context.Context, id int64) (*models.Project, error)
	Create(ctx context.Context, in models.ProjectInput, ownerID int64) (*models.Project, error)
	Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id int64) (bool, error)

	// AddMember is idempotent: adding an existing member is a no-op
	AddMember(ctx context.Context, projectID, userID int64) error

	// RemoveMember reports whether a membership row was removed
	RemoveMember(ctx context.Context, projectID, userID int64) (bool, error)

	// ListMembers returns the roster ordered by join time
	ListMembers(ctx context.Context, projectID int64) ([]*models.ProjectMember, error)

	// MemberIDs returns the user ids of the roster
	MemberIDs(ctx context.Context, projectID int64) ([]int64, error)
}

// ForumRepository handles forum categories, threads and replies
type ForumRepository interface {
	ListCategories(ctx context.Context) ([]*models.ForumCategory, error)
	GetCategory(ctx context.Context, id int64) (*models.ForumCategory, error)
	CreateCategory(ctx context.Context, name string, description *string) (*models.ForumCategory, error)
	UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.ForumCategory, error)

	// DeleteCategory removes the category together with its threads and their
	// replies. Call it inside a transaction.
	DeleteCategory(ctx context.Context, id int64) (bool, error)

	// ListThreads returns threads of a category with author and reply count, newest first
	ListThreads(ctx context.Context, categoryID int64) ([]*models.ForumThread, error)
	GetThread(ctx context.Context, id int64) (*models.ForumThread, error)
	CreateThread(ctx context.Context, title, content string, categoryID, ownerID int64) (*models.ForumThread, error)
	UpdateThread(ctx context.Context, id int64, patch models.ThreadPatch) (*models.ForumThread, error)
	DeleteThread(ctx context.Context, id int64) (bool, error)

	// ListReplies returns replies of a thread with authors, oldest first
	ListReplies(ctx context.Context, threadID int64) ([]*models.ForumReply, error)
	GetReply(ctx context.Context, id int64) (*models.ForumReply, error)
	CreateReply(ctx context.Context, content string, threadID, ownerID int64) (*models.ForumReply, error)
	UpdateReply(ctx context.Context, id int64, content string) (*models.ForumReply, error)
	DeleteReply(ctx context.Context, id int64) (bool, error)
}

// AuditRepository handles audit log data operations
type AuditRepository interface {
	// Insert inserts a new audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// List returns entries newest first
	List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users     UserRepository
	Events    EventRepository
	Projects  ProjectRepository
	Forum     ForumRepository
	AuditLogs AuditRepository
}
