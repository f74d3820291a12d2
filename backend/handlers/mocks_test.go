package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/middleware"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/services"
)

var (
	adminPrincipal  = &policy.Principal{ID: 9, Email: "admin@example.com", Role: policy.RoleAdmin}
	memberPrincipal = &policy.Principal{ID: 5, Email: "member@example.com", Role: policy.RoleMember}
)

// serve mounts h on a fresh chi router so path parameters resolve, then sends
// the request with p attached as the caller.
func serve(t *testing.T, method, pattern, target, body string, p *policy.Principal, h http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if p != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), p))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LoginResult), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, p *policy.Principal) (*models.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, p *policy.Principal) ([]*models.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, p *policy.Principal, id int64) (*models.User, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Search(ctx context.Context, p *policy.Principal, query string) ([]*models.User, error) {
	args := m.Called(ctx, p, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, p *policy.Principal, id int64, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, p, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventService) Upcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) Create(ctx context.Context, p *policy.Principal, in models.EventInput) (*models.Event, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, p *policy.Principal, id int64, patch models.EventPatch) (*models.Event, error) {
	args := m.Called(ctx, p, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context) ([]*models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectService) ListMine(ctx context.Context, p *policy.Principal) ([]*models.Project, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, p *policy.Principal, in models.ProjectInput) (*models.Project, error) {
	args := m.Called(ctx, p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, p *policy.Principal, id int64, patch models.ProjectPatch) (*models.Project, error) {
	args := m.Called(ctx, p, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, p *policy.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockProjectService) Members(ctx context.Context, projectID int64) ([]*models.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProjectMember), args.Error(1)
}

func (m *MockProjectService) AddMember(ctx context.Context, p *policy.Principal, projectID, userID int64) error {
	args := m.Called(ctx, p, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectService) RemoveMember(ctx context.Context, p *policy.Principal, projectID, userID int64) error {
	args := m.Called(ctx, p, projectID, userID)
	return args.Error(0)
}

// MockForumService is a mock implementation of ForumService
type MockForumService struct {
	mock.Mock
}

func (m *MockForumService) ListCategories(ctx context.Context) ([]*models.ForumCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ForumCategory), args.Error(1)
}

func (m *MockForumService) GetCategory(ctx context.Context, id int64) (*models.ForumCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumCategory), args.Error(1)
}

func (m *MockForumService) CategoryThreads(ctx context.Context, id int64) (*models.ForumCategory, []*models.ForumThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.ForumCategory), args.Get(1).([]*models.ForumThread), args.Error(2)
}

func (m *MockForumService) CreateCategory(ctx context.Context, p *policy.Principal, name string, description *string) (*models.ForumCategory, error) {
	args := m.Called(ctx, p, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumCategory), args.Error(1)
}

func (m *MockForumService) UpdateCategory(ctx context.Context, p *policy.Principal, id int64, patch models.CategoryPatch) (*models.ForumCategory, error) {
	args := m.Called(ctx, p, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumCategory), args.Error(1)
}

func (m *MockForumService) DeleteCategory(ctx context.Context, p *policy.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockForumService) GetThread(ctx context.Context, id int64) (*models.ForumThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumThread), args.Error(1)
}

func (m *MockForumService) CreateThread(ctx context.Context, p *policy.Principal, title, content string, categoryID int64) (*models.ForumThread, error) {
	args := m.Called(ctx, p, title, content, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumThread), args.Error(1)
}

func (m *MockForumService) UpdateThread(ctx context.Context, p *policy.Principal, id int64, patch models.ThreadPatch) (*models.ForumThread, error) {
	args := m.Called(ctx, p, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumThread), args.Error(1)
}

func (m *MockForumService) DeleteThread(ctx context.Context, p *policy.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockForumService) CreateReply(ctx context.Context, p *policy.Principal, content string, threadID int64) (*models.ForumReply, error) {
	args := m.Called(ctx, p, content, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumReply), args.Error(1)
}

func (m *MockForumService) UpdateReply(ctx context.Context, p *policy.Principal, id int64, content string) (*models.ForumReply, error) {
	args := m.Called(ctx, p, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ForumReply), args.Error(1)
}

func (m *MockForumService) DeleteReply(ctx context.Context, p *policy.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

// MockAuditReader is a mock implementation of AuditReader
type MockAuditReader struct {
	mock.Mock
}

func (m *MockAuditReader) List(ctx context.Context, p *policy.Principal, filter models.AuditFilter) ([]*models.AuditLog, error) {
	args := m.Called(ctx, p, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}
