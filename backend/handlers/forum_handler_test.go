package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/association-hub/backend/internal/policy"
	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/services"
	"go.uber.org/zap"
)

func TestForumHandler_CategoryReads(t *testing.T) {
	svc := new(MockForumService)
	general := &models.ForumCategory{ID: 1, Name: "General"}
	svc.On("ListCategories", mock.Anything).Return([]*models.ForumCategory{general}, nil)
	svc.On("GetCategory", mock.Anything, int64(1)).Return(general, nil)
	svc.On("CategoryThreads", mock.Anything, int64(1)).Return(general, []*models.ForumThread{{ID: 3, CategoryID: 1}}, nil)
	svc.On("CategoryThreads", mock.Anything, int64(2)).Return(nil, nil, services.ErrCategoryNotFound)
	h := NewForumHandler(svc, zap.NewNop())

	w := serve(t, http.MethodGet, "/forum/categories", "/forum/categories", "", nil, h.HandleListCategories)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["categories"], 1)

	w = serve(t, http.MethodGet, "/forum/categories/{id}", "/forum/categories/1", "", nil, h.HandleGetCategory)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "General", decodeBody(t, w)["category"].(map[string]interface{})["name"])

	w = serve(t, http.MethodGet, "/forum/categories/{id}/threads", "/forum/categories/1/threads", "", nil, h.HandleCategoryThreads)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body, "category")
	assert.Len(t, body["threads"], 1)

	w = serve(t, http.MethodGet, "/forum/categories/{id}/threads", "/forum/categories/2/threads", "", nil, h.HandleCategoryThreads)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decodeBody(t, w)["message"])

	w = serve(t, http.MethodGet, "/forum/categories/{id}", "/forum/categories/-1", "", nil, h.HandleGetCategory)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category ID", decodeBody(t, w)["message"])
}

func TestForumHandler_CategoryWrites(t *testing.T) {
	t.Run("admin creates", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("CreateCategory", mock.Anything, adminPrincipal, "Events", (*string)(nil)).
			Return(&models.ForumCategory{ID: 2, Name: "Events"}, nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPost, "/forum/categories", "/forum/categories", `{"name":"Events"}`, adminPrincipal, h.HandleCreateCategory)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Category created successfully", decodeBody(t, w)["message"])
	})

	t.Run("member cannot create", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("CreateCategory", mock.Anything, memberPrincipal, "Events", (*string)(nil)).
			Return(nil, services.Denied(policy.Decision{Reason: policy.ReasonAdminRequired}, "Only administrators can create categories"))
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPost, "/forum/categories", "/forum/categories", `{"name":"Events"}`, memberPrincipal, h.HandleCreateCategory)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Only administrators can create categories", decodeBody(t, w)["message"])
	})

	t.Run("update clears description", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("UpdateCategory", mock.Anything, adminPrincipal, int64(2), mock.MatchedBy(func(p models.CategoryPatch) bool {
			return p.Name == nil && p.Description.Set && p.Description.Value == nil
		})).Return(&models.ForumCategory{ID: 2, Name: "Events"}, nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPut, "/forum/categories/{id}", "/forum/categories/2", `{"description":null}`, adminPrincipal, h.HandleUpdateCategory)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Category updated successfully", decodeBody(t, w)["message"])
		svc.AssertExpectations(t)
	})

	t.Run("admin deletes with threads", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("DeleteCategory", mock.Anything, adminPrincipal, int64(2)).Return(nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodDelete, "/forum/categories/{id}", "/forum/categories/2", "", adminPrincipal, h.HandleDeleteCategory)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Category deleted successfully", decodeBody(t, w)["message"])
	})
}

func TestForumHandler_Threads(t *testing.T) {
	t.Run("thread detail includes replies", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("GetThread", mock.Anything, int64(3)).Return(&models.ForumThread{
			ID:      3,
			Author:  &models.Author{ID: 5, Name: "Ana"},
			Replies: []*models.ForumReply{{ID: 1}, {ID: 2}},
		}, nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodGet, "/forum/threads/{id}", "/forum/threads/3", "", nil, h.HandleGetThread)

		require.Equal(t, http.StatusOK, w.Code)
		thread := decodeBody(t, w)["thread"].(map[string]interface{})
		assert.Len(t, thread["replies"], 2)
		assert.Equal(t, "Ana", thread["author"].(map[string]interface{})["name"])
	})

	t.Run("create in missing category", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("CreateThread", mock.Anything, memberPrincipal, "Hello", "First post", int64(42)).
			Return(nil, services.ErrCategoryNotFound)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPost, "/forum/threads", "/forum/threads",
			`{"title":"Hello","content":"First post","category_id":42}`, memberPrincipal, h.HandleCreateThread)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Category not found", decodeBody(t, w)["message"])
	})

	t.Run("create validates category id", func(t *testing.T) {
		h := NewForumHandler(new(MockForumService), zap.NewNop())

		w := serve(t, http.MethodPost, "/forum/threads", "/forum/threads", `{"title":"Hello","content":"x"}`, memberPrincipal, h.HandleCreateThread)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w)["errors"], "category_id")
	})

	t.Run("create", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("CreateThread", mock.Anything, memberPrincipal, "Hello", "First post", int64(1)).
			Return(&models.ForumThread{ID: 9, CreatedBy: 5}, nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPost, "/forum/threads", "/forum/threads",
			`{"title":"Hello","content":"First post","category_id":1}`, memberPrincipal, h.HandleCreateThread)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Thread created successfully", decodeBody(t, w)["message"])
	})

	t.Run("update by non-owner", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("UpdateThread", mock.Anything, memberPrincipal, int64(9), mock.Anything).
			Return(nil, services.Denied(policy.Decision{Reason: policy.ReasonNotOwner}, "You do not have permission to update this thread"))
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPut, "/forum/threads/{id}", "/forum/threads/9", `{"content":"edited"}`, memberPrincipal, h.HandleUpdateThread)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("DeleteThread", mock.Anything, adminPrincipal, int64(9)).Return(nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodDelete, "/forum/threads/{id}", "/forum/threads/9", "", adminPrincipal, h.HandleDeleteThread)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Thread deleted successfully", decodeBody(t, w)["message"])
	})
}

func TestForumHandler_Replies(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("CreateReply", mock.Anything, memberPrincipal, "Agreed", int64(9)).
			Return(&models.ForumReply{ID: 1, ThreadID: 9, CreatedBy: 5}, nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPost, "/forum/replies", "/forum/replies", `{"content":"Agreed","thread_id":9}`, memberPrincipal, h.HandleCreateReply)

		assert.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Reply created successfully", body["message"])
		assert.Equal(t, float64(9), body["reply"].(map[string]interface{})["thread_id"])
	})

	t.Run("create on missing thread", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("CreateReply", mock.Anything, memberPrincipal, "Agreed", int64(10)).Return(nil, services.ErrThreadNotFound)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPost, "/forum/replies", "/forum/replies", `{"content":"Agreed","thread_id":10}`, memberPrincipal, h.HandleCreateReply)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Thread not found", decodeBody(t, w)["message"])
	})

	t.Run("update requires content", func(t *testing.T) {
		h := NewForumHandler(new(MockForumService), zap.NewNop())

		w := serve(t, http.MethodPut, "/forum/replies/{id}", "/forum/replies/1", `{}`, memberPrincipal, h.HandleUpdateReply)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeBody(t, w)["errors"], "content")
	})

	t.Run("update", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("UpdateReply", mock.Anything, memberPrincipal, int64(1), "Edited").Return(&models.ForumReply{ID: 1, Content: "Edited"}, nil)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodPut, "/forum/replies/{id}", "/forum/replies/1", `{"content":"Edited"}`, memberPrincipal, h.HandleUpdateReply)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Reply updated successfully", decodeBody(t, w)["message"])
	})

	t.Run("delete missing", func(t *testing.T) {
		svc := new(MockForumService)
		svc.On("DeleteReply", mock.Anything, memberPrincipal, int64(2)).Return(services.ErrReplyNotFound)
		h := NewForumHandler(svc, zap.NewNop())

		w := serve(t, http.MethodDelete, "/forum/replies/{id}", "/forum/replies/2", "", memberPrincipal, h.HandleDeleteReply)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Reply not found", decodeBody(t, w)["message"])
	})

	t.Run("bad id", func(t *testing.T) {
		h := NewForumHandler(new(MockForumService), zap.NewNop())

		w := serve(t, http.MethodDelete, "/forum/replies/{id}", "/forum/replies/zz", "", memberPrincipal, h.HandleDeleteReply)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid reply ID", decodeBody(t, w)["message"])
	})
}
