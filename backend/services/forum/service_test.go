package forum

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/internal/testutil"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"github.com/upb/association-hub/backend/services"
	"go.uber.org/zap"
)

var (
	admin  = &policy.Principal{ID: 9, Role: policy.RoleAdmin}
	author = &policy.Principal{ID: 5, Role: policy.RoleMember}
	member = &policy.Principal{ID: 7, Role: policy.RoleMember}

	general = &models.ForumCategory{ID: 1, Name: "General"}
)

func newService(txMgr repositories.TransactionManager) (*Service, *testutil.MockForumRepository) {
	repo := new(testutil.MockForumRepository)
	return NewService(repo, txMgr, services.NewGuard(), zap.NewNop()), repo
}

func message(t *testing.T, err error) string {
	t.Helper()
	var domainErr *services.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Message
}

func TestService_Categories(t *testing.T) {
	ctx := context.Background()

	t.Run("category with threads", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetCategory", ctx, int64(1)).Return(general, nil)
		repo.On("ListThreads", ctx, int64(1)).Return([]*models.ForumThread{{ID: 2}}, nil)

		category, threads, err := service.CategoryThreads(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "General", category.Name)
		assert.Len(t, threads, 1)
	})

	t.Run("unknown category", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetCategory", ctx, int64(2)).Return(nil, repositories.ErrNotFound)

		_, _, err := service.CategoryThreads(ctx, 2)
		assert.Equal(t, "Category not found", message(t, err))
	})

	for _, p := range []*policy.Principal{author, member} {
		t.Run("member cannot manage categories", func(t *testing.T) {
			service, repo := newService(nil)
			repo.On("GetCategory", ctx, int64(1)).Return(general, nil)

			_, err := service.CreateCategory(ctx, p, "Events", nil)
			assert.Equal(t, "Only administrators can create categories", message(t, err))

			name := "Renamed"
			_, err = service.UpdateCategory(ctx, p, 1, models.CategoryPatch{Name: &name})
			assert.Equal(t, "Only administrators can update categories", message(t, err))

			err = service.DeleteCategory(ctx, p, 1)
			assert.Equal(t, "Only administrators can delete categories", message(t, err))
			assert.True(t, services.IsForbiddenError(err))

			repo.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "UpdateCategory", mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything)
		})
	}

	t.Run("admin creates and updates", func(t *testing.T) {
		service, repo := newService(nil)
		desc := "Announcements"
		name := "News"
		repo.On("CreateCategory", ctx, "News", &desc).Return(&models.ForumCategory{ID: 3, Name: "News"}, nil)
		repo.On("GetCategory", ctx, int64(3)).Return(&models.ForumCategory{ID: 3}, nil)
		repo.On("UpdateCategory", ctx, int64(3), models.CategoryPatch{Name: &name}).Return(&models.ForumCategory{ID: 3, Name: name}, nil)

		category, err := service.CreateCategory(ctx, admin, "News", &desc)
		require.NoError(t, err)
		assert.Equal(t, int64(3), category.ID)

		category, err = service.UpdateCategory(ctx, admin, 3, models.CategoryPatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, name, category.Name)
	})
}

func TestService_DeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("cascade runs in a transaction", func(t *testing.T) {
		txMgr, tx := testutil.ExpectTransaction(ctx)
		tx.On("Commit").Return(nil)
		service, repo := newService(txMgr)
		repo.On("GetCategory", ctx, int64(1)).Return(general, nil)
		repo.On("DeleteCategory", ctx, int64(1)).Return(true, nil)

		require.NoError(t, service.DeleteCategory(ctx, admin, 1))
		assert.True(t, tx.Committed)
		repo.AssertExpectations(t)
	})

	t.Run("failure rolls back", func(t *testing.T) {
		txMgr, tx := testutil.ExpectTransaction(ctx)
		tx.On("Rollback").Return(nil)
		service, repo := newService(txMgr)
		repo.On("GetCategory", ctx, int64(1)).Return(general, nil)
		repo.On("DeleteCategory", ctx, int64(1)).Return(false, errors.New("fk violation"))

		err := service.DeleteCategory(ctx, admin, 1)
		assert.True(t, services.IsInternalError(err))
		assert.True(t, tx.RolledBack)
	})

	t.Run("begin failure", func(t *testing.T) {
		txMgr := new(testutil.MockTransactionManager)
		txMgr.On("Begin", mock.Anything).Return(nil, errors.New("pool exhausted"))
		service, repo := newService(txMgr)
		repo.On("GetCategory", ctx, int64(1)).Return(general, nil)

		assert.True(t, services.IsInternalError(service.DeleteCategory(ctx, admin, 1)))
	})

	t.Run("missing category is not found for members too", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetCategory", ctx, int64(8)).Return(nil, repositories.ErrNotFound)

		assert.True(t, services.IsNotFoundError(service.DeleteCategory(ctx, member, 8)))
	})
}

func TestService_Threads(t *testing.T) {
	ctx := context.Background()
	thread := &models.ForumThread{ID: 2, Title: "Hello", CategoryID: 1, CreatedBy: author.ID}

	t.Run("get includes replies", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetThread", ctx, int64(2)).Return(thread, nil)
		repo.On("ListReplies", ctx, int64(2)).Return([]*models.ForumReply{{ID: 1}, {ID: 2}}, nil)

		got, err := service.GetThread(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, got.Replies, 2)
	})

	t.Run("create requires an existing category", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetCategory", ctx, int64(99)).Return(nil, repositories.ErrNotFound)

		_, err := service.CreateThread(ctx, member, "Hi", "Body", 99)
		assert.Equal(t, "Category not found", message(t, err))
		repo.AssertNotCalled(t, "CreateThread", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("create", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetCategory", ctx, int64(1)).Return(general, nil)
		repo.On("CreateThread", ctx, "Hi", "Body", int64(1), member.ID).Return(&models.ForumThread{ID: 3, CreatedBy: member.ID}, nil)

		created, err := service.CreateThread(ctx, member, "Hi", "Body", 1)
		require.NoError(t, err)
		assert.Equal(t, member.ID, created.CreatedBy)
	})

	t.Run("only author or admin may edit", func(t *testing.T) {
		content := "Edited"
		patch := models.ThreadPatch{Content: &content}
		service, repo := newService(nil)
		repo.On("GetThread", ctx, int64(2)).Return(thread, nil)
		repo.On("UpdateThread", ctx, int64(2), patch).Return(thread, nil)
		repo.On("DeleteThread", ctx, int64(2)).Return(true, nil)

		_, err := service.UpdateThread(ctx, member, 2, patch)
		assert.Equal(t, "You do not have permission to update this thread", message(t, err))
		assert.Equal(t, "You do not have permission to delete this thread", message(t, service.DeleteThread(ctx, member, 2)))

		_, err = service.UpdateThread(ctx, author, 2, patch)
		assert.NoError(t, err)
		assert.NoError(t, service.DeleteThread(ctx, admin, 2))
	})
}

func TestService_Replies(t *testing.T) {
	ctx := context.Background()
	reply := &models.ForumReply{ID: 4, ThreadID: 2, CreatedBy: author.ID}

	t.Run("create requires an existing thread", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetThread", ctx, int64(99)).Return(nil, repositories.ErrNotFound)

		_, err := service.CreateReply(ctx, member, "Hi", 99)
		assert.Equal(t, "Thread not found", message(t, err))
	})

	t.Run("create", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetThread", ctx, int64(2)).Return(&models.ForumThread{ID: 2}, nil)
		repo.On("CreateReply", ctx, "Agreed", int64(2), member.ID).Return(&models.ForumReply{ID: 5, CreatedBy: member.ID}, nil)

		created, err := service.CreateReply(ctx, member, "Agreed", 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), created.ID)
	})

	t.Run("ownership", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetReply", ctx, int64(4)).Return(reply, nil)
		repo.On("UpdateReply", ctx, int64(4), "Fixed").Return(reply, nil)
		repo.On("DeleteReply", ctx, int64(4)).Return(true, nil)

		_, err := service.UpdateReply(ctx, member, 4, "Fixed")
		assert.Equal(t, "You do not have permission to update this reply", message(t, err))
		assert.Equal(t, "You do not have permission to delete this reply", message(t, service.DeleteReply(ctx, member, 4)))

		_, err = service.UpdateReply(ctx, author, 4, "Fixed")
		assert.NoError(t, err)
		assert.NoError(t, service.DeleteReply(ctx, author, 4))
	})

	t.Run("missing reply", func(t *testing.T) {
		service, repo := newService(nil)
		repo.On("GetReply", ctx, int64(40)).Return(nil, repositories.ErrNotFound)

		err := service.DeleteReply(ctx, admin, 40)
		assert.Equal(t, "Reply not found", message(t, err))
	})
}
