package postgres

import (
	"context"
	"fmt"

	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"go.uber.org/zap"
)

const (
	categoryColumns = "id, name, description, created_at"
	threadColumns   = "id, title, content, category_id, created_by, created_at, updated_at"
	replyColumns    = "id, content, thread_id, created_by, created_at, updated_at"
)

// ForumRepository implements the repositories.ForumRepository interface
type ForumRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewForumRepository creates a new forum repository
func NewForumRepository(db *DB, logger *zap.Logger) repositories.ForumRepository {
	return &ForumRepository{
		db:     db,
		logger: logger,
	}
}

func scanCategory(row rowScanner) (*models.ForumCategory, error) {
	c := &models.ForumCategory{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func threadDest(t *models.ForumThread) []interface{} {
	return []interface{}{&t.ID, &t.Title, &t.Content, &t.CategoryID, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt}
}

func replyDest(r *models.ForumReply) []interface{} {
	return []interface{}{&r.ID, &r.Content, &r.ThreadID, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt}
}

// Categories

// ListCategories retrieves all categories ordered by name
func (r *ForumRepository) ListCategories(ctx context.Context) ([]*models.ForumCategory, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM forum_categories ORDER BY name ASC`)
	if err != nil {
		return nil, translateError("list forum categories", err)
	}
	defer rows.Close()

	categories := []*models.ForumCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forum category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

// GetCategory retrieves a category by ID
func (r *ForumRepository) GetCategory(ctx context.Context, id int64) (*models.ForumCategory, error) {
	c, err := scanCategory(GetExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM forum_categories WHERE id = $1`, id))
	if err != nil {
		return nil, translateError("get forum category", err)
	}
	return c, nil
}

// CreateCategory inserts a category
func (r *ForumRepository) CreateCategory(ctx context.Context, name string, description *string) (*models.ForumCategory, error) {
	c, err := scanCategory(GetExecutor(ctx, r.db).QueryRowContext(ctx,
		`INSERT INTO forum_categories (name, description) VALUES ($1, $2) RETURNING `+categoryColumns,
		name, description))
	if err != nil {
		return nil, translateError("create forum category", err)
	}

	r.logger.Debug("forum category created", zap.Int64("id", c.ID))
	return c, nil
}

// UpdateCategory applies the supplied fields. Categories carry no updated_at.
func (r *ForumRepository) UpdateCategory(ctx context.Context, id int64, patch models.CategoryPatch) (*models.ForumCategory, error) {
	var set setClause
	if patch.Name != nil {
		set.add("name", *patch.Name)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Value)
	}
	if set.empty() {
		return r.GetCategory(ctx, id)
	}

	query, args := set.build("forum_categories", id, categoryColumns)
	c, err := scanCategory(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, translateError("update forum category", err)
	}

	r.logger.Debug("forum category updated", zap.Int64("id", id))
	return c, nil
}

// DeleteCategory removes the category, its threads and their replies
func (r *ForumRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	executor := GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx,
		`DELETE FROM forum_replies WHERE thread_id IN (SELECT id FROM forum_threads WHERE category_id = $1)`, id); err != nil {
		return false, translateError("delete category replies", err)
	}
	if _, err := executor.ExecContext(ctx, `DELETE FROM forum_threads WHERE category_id = $1`, id); err != nil {
		return false, translateError("delete category threads", err)
	}

	result, err := executor.ExecContext(ctx, `DELETE FROM forum_categories WHERE id = $1`, id)
	ok, err := deleted("delete forum category", result, err)
	if ok {
		r.logger.Debug("forum category deleted", zap.Int64("id", id))
	}
	return ok, err
}

// Threads

// ListThreads retrieves the threads of a category with author name and reply count
func (r *ForumRepository) ListThreads(ctx context.Context, categoryID int64) ([]*models.ForumThread, error) {
	query := `
		SELECT t.id, t.title, t.content, t.category_id, t.created_by, t.created_at, t.updated_at,
		       u.name,
		       (SELECT COUNT(*) FROM forum_replies fr WHERE fr.thread_id = t.id)
		FROM forum_threads t
		JOIN users u ON t.created_by = u.id
		WHERE t.category_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, translateError("list forum threads", err)
	}
	defer rows.Close()

	threads := []*models.ForumThread{}
	for rows.Next() {
		t := &models.ForumThread{}
		var authorName string
		var replyCount int
		if err := rows.Scan(append(threadDest(t), &authorName, &replyCount)...); err != nil {
			return nil, fmt.Errorf("failed to scan forum thread: %w", err)
		}
		t.Author = &models.Author{ID: t.CreatedBy, Name: authorName}
		t.ReplyCount = &replyCount
		threads = append(threads, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating thread rows: %w", err)
	}

	return threads, nil
}

// GetThread retrieves a thread with its author
func (r *ForumRepository) GetThread(ctx context.Context, id int64) (*models.ForumThread, error) {
	query := `
		SELECT t.id, t.title, t.content, t.category_id, t.created_by, t.created_at, t.updated_at, u.name
		FROM forum_threads t
		JOIN users u ON t.created_by = u.id
		WHERE t.id = $1
	`

	t := &models.ForumThread{}
	var authorName string
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(append(threadDest(t), &authorName)...)
	if err != nil {
		return nil, translateError("get forum thread", err)
	}
	t.Author = &models.Author{ID: t.CreatedBy, Name: authorName}
	return t, nil
}

// CreateThread inserts a thread owned by ownerID
func (r *ForumRepository) CreateThread(ctx context.Context, title, content string, categoryID, ownerID int64) (*models.ForumThread, error) {
	query := `
		INSERT INTO forum_threads (title, content, category_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + threadColumns

	t := &models.ForumThread{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, title, content, categoryID, ownerID).Scan(threadDest(t)...)
	if err != nil {
		return nil, translateError("create forum thread", err)
	}

	r.logger.Debug("forum thread created", zap.Int64("id", t.ID), zap.Int64("category_id", categoryID))
	return t, nil
}

// UpdateThread applies the supplied fields and refreshes updated_at
func (r *ForumRepository) UpdateThread(ctx context.Context, id int64, patch models.ThreadPatch) (*models.ForumThread, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Content != nil {
		set.add("content", *patch.Content)
	}
	set.raw("updated_at = NOW()")

	query, args := set.build("forum_threads", id, threadColumns)
	t := &models.ForumThread{}
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...).Scan(threadDest(t)...); err != nil {
		return nil, translateError("update forum thread", err)
	}

	r.logger.Debug("forum thread updated", zap.Int64("id", id))
	return t, nil
}

// DeleteThread deletes a thread; replies cascade
func (r *ForumRepository) DeleteThread(ctx context.Context, id int64) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM forum_threads WHERE id = $1`, id)
	ok, err := deleted("delete forum thread", result, err)
	if ok {
		r.logger.Debug("forum thread deleted", zap.Int64("id", id))
	}
	return ok, err
}

// Replies

// ListReplies retrieves the replies of a thread with authors, oldest first
func (r *ForumRepository) ListReplies(ctx context.Context, threadID int64) ([]*models.ForumReply, error) {
	query := `
		SELECT r.id, r.content, r.thread_id, r.created_by, r.created_at, r.updated_at, u.name
		FROM forum_replies r
		JOIN users u ON r.created_by = u.id
		WHERE r.thread_id = $1
		ORDER BY r.created_at ASC
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, translateError("list forum replies", err)
	}
	defer rows.Close()

	replies := []*models.ForumReply{}
	for rows.Next() {
		reply := &models.ForumReply{}
		var authorName string
		if err := rows.Scan(append(replyDest(reply), &authorName)...); err != nil {
			return nil, fmt.Errorf("failed to scan forum reply: %w", err)
		}
		reply.Author = &models.Author{ID: reply.CreatedBy, Name: authorName}
		replies = append(replies, reply)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reply rows: %w", err)
	}

	return replies, nil
}

// GetReply retrieves a reply by ID
func (r *ForumRepository) GetReply(ctx context.Context, id int64) (*models.ForumReply, error) {
	reply := &models.ForumReply{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+replyColumns+` FROM forum_replies WHERE id = $1`, id).Scan(replyDest(reply)...)
	if err != nil {
		return nil, translateError("get forum reply", err)
	}
	return reply, nil
}

// CreateReply inserts a reply owned by ownerID
func (r *ForumRepository) CreateReply(ctx context.Context, content string, threadID, ownerID int64) (*models.ForumReply, error) {
	query := `
		INSERT INTO forum_replies (content, thread_id, created_by)
		VALUES ($1, $2, $3)
		RETURNING ` + replyColumns

	reply := &models.ForumReply{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, content, threadID, ownerID).Scan(replyDest(reply)...)
	if err != nil {
		return nil, translateError("create forum reply", err)
	}

	r.logger.Debug("forum reply created", zap.Int64("id", reply.ID), zap.Int64("thread_id", threadID))
	return reply, nil
}

// UpdateReply replaces the content and refreshes updated_at
func (r *ForumRepository) UpdateReply(ctx context.Context, id int64, content string) (*models.ForumReply, error) {
	query := `
		UPDATE forum_replies SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + replyColumns

	reply := &models.ForumReply{}
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, content, id).Scan(replyDest(reply)...); err != nil {
		return nil, translateError("update forum reply", err)
	}

	r.logger.Debug("forum reply updated", zap.Int64("id", id))
	return reply, nil
}

// DeleteReply deletes a reply
func (r *ForumRepository) DeleteReply(ctx context.Context, id int64) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM forum_replies WHERE id = $1`, id)
	ok, err := deleted("delete forum reply", result, err)
	if ok {
		r.logger.Debug("forum reply deleted", zap.Int64("id", id))
	}
	return ok, err
}
