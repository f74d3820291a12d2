// Package testutil provides testify mocks of the repository interfaces shared
// by service and handler tests.
package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
)

// === Transactions ===

// MockTransactionManager is a mock implementation of TransactionManager
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTransaction is a mock implementation of Transaction
type MockTransaction struct {
	mock.Mock
	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit() error {
	args := m.Called()
	m.Committed = true
	return args.Error(0)
}

func (m *MockTransaction) Rollback() error {
	args := m.Called()
	m.RolledBack = true
	return args.Error(0)
}

func (m *MockTransaction) Context() context.Context {
	args := m.Called()
	return args.Get(0).(context.Context)
}

// ExpectTransaction wires a transaction manager that begins tx on any context
// and hands repository calls a context equal to ctx.
func ExpectTransaction(ctx context.Context) (*MockTransactionManager, *MockTransaction) {
	txMgr := new(MockTransactionManager)
	tx := new(MockTransaction)
	txMgr.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Context").Return(ctx)
	return txMgr, tx
}

// === Users ===

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, query string) ([]*models.User, error) {
	args := m.Called(ctx, query)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, patch models.UserPatchRecord) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// === Events ===

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	if e := args.Get(0); e != nil {
		return e.([]*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventRepository) ListUpcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	args := m.Called(ctx, limit)
	if e := args.Get(0); e != nil {
		return e.([]*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if e := args.Get(0); e != nil {
		return e.(*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, in models.EventInput, ownerID int64) (*models.Event, error) {
	args := m.Called(ctx, in, ownerID)
	if e := args.Get(0); e != nil {
		return e.(*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	args := m.Called(ctx, id, patch)
	if e := args.Get(0); e != nil {
		return e.(*models.Event), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// === Projects ===

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Project, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.([]*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) Create(ctx context.Context, in models.ProjectInput, ownerID int64) (*models.Project, error) {
	args := m.Called(ctx, in, ownerID)
	if p := args.Get(0); p != nil {
		return p.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, id, patch)
	if p := args.Get(0); p != nil {
		return p.(*models.Project), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) AddMember(ctx context.Context, projectID, userID int64) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) (bool, error) {
	args := m.Called(ctx, projectID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepository) ListMembers(ctx context.Context, projectID int64) ([]*models.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if p := args.Get(0); p != nil {
		return p.([]*models.ProjectMember), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProjectRepository) MemberIDs(ctx context.Context, projectID int64) ([]int64, error) {
	args := m.Called(ctx, projectID)
	if p := args.Get(0); p != nil {
		return p.([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

// === Forum ===

// MockForumRepository is a mock implementation of ForumRepository
type MockForumRepository struct {
	mock.Mock
}

func (m *MockForumRepository) ListCategories(ctx context.Context) ([]*models.ForumCategory, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]*models.ForumCategory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) GetCategory(ctx context.Context, id int64) (*models.ForumCategory, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.ForumCategory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) CreateCategory(ctx context.Context, name string, description *string) (*models.ForumCategory, error) {
	args := m.Called(ctx, name, description)
	if c := args.Get(0); c != nil {
		return c.(*models.ForumCategory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.ForumCategory, error) {
	args := m.Called(ctx, id, patch)
	if c := args.Get(0); c != nil {
		return c.(*models.ForumCategory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockForumRepository) ListThreads(ctx context.Context, categoryID int64) ([]*models.ForumThread, error) {
	args := m.Called(ctx, categoryID)
	if t := args.Get(0); t != nil {
		return t.([]*models.ForumThread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) GetThread(ctx context.Context, id int64) (*models.ForumThread, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.ForumThread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) CreateThread(ctx context.Context, title, content string, categoryID, ownerID int64) (*models.ForumThread, error) {
	args := m.Called(ctx, title, content, categoryID, ownerID)
	if t := args.Get(0); t != nil {
		return t.(*models.ForumThread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) UpdateThread(ctx context.Context, id int64, patch models.ThreadPatch) (*models.ForumThread, error) {
	args := m.Called(ctx, id, patch)
	if t := args.Get(0); t != nil {
		return t.(*models.ForumThread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) DeleteThread(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockForumRepository) ListReplies(ctx context.Context, threadID int64) ([]*models.ForumReply, error) {
	args := m.Called(ctx, threadID)
	if r := args.Get(0); r != nil {
		return r.([]*models.ForumReply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) GetReply(ctx context.Context, id int64) (*models.ForumReply, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*models.ForumReply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) CreateReply(ctx context.Context, content string, threadID, ownerID int64) (*models.ForumReply, error) {
	args := m.Called(ctx, content, threadID, ownerID)
	if r := args.Get(0); r != nil {
		return r.(*models.ForumReply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) UpdateReply(ctx context.Context, id int64, content string) (*models.ForumReply, error) {
	args := m.Called(ctx, id, content)
	if r := args.Get(0); r != nil {
		return r.(*models.ForumReply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockForumRepository) DeleteReply(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// === Audit ===

// MockAuditRepository is a mock implementation of AuditRepository that also
// collects inserted entries for assertions.
type MockAuditRepository struct {
	mock.Mock
	mu           sync.Mutex
	insertedLogs []*models.AuditLog
}

func (m *MockAuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	args := m.Called(ctx, log)
	m.insertedLogs = append(m.insertedLogs, log)
	return args.Error(0)
}

func (m *MockAuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filter)
	if l := args.Get(0); l != nil {
		return l.([]*models.AuditLog), args.Error(1)
	}
	return nil, args.Error(1)
}

// Inserted returns a snapshot of the inserted entries
func (m *MockAuditRepository) Inserted() []*models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.AuditLog(nil), m.insertedLogs...)
}
