package postgres

import (
	"context"
	"fmt"

	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"go.uber.org/zap"
)

const (
	projectColumns       = "id, title, description, deadline, created_by, created_at, updated_at"
	projectJoinedColumns = "p.id, p.title, p.description, p.deadline, p.created_by, p.created_at, p.updated_at, u.name"
	projectFrom          = "FROM projects p JOIN users u ON p.created_by = u.id"
)

// ProjectRepository implements the repositories.ProjectRepository interface
type ProjectRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB, logger *zap.Logger) repositories.ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

func scanProject(row rowScanner, withCreator bool) (*models.Project, error) {
	p := &models.Project{}
	dest := []interface{}{
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Deadline,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if withCreator {
		dest = append(dest, &p.CreatorName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves all projects, newest first
func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectJoinedColumns + ` ` + projectFrom + ` ORDER BY p.created_at DESC`
	return r.query(ctx, "list projects", query)
}

// ListByUser retrieves projects the user created or is a member of
func (r *ProjectRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Project, error) {
	query := `SELECT ` + projectJoinedColumns + ` ` + projectFrom + `
		WHERE p.created_by = $1
		   OR EXISTS (SELECT 1 FROM project_members pm WHERE pm.project_id = p.id AND pm.user_id = $1)
		ORDER BY p.created_at DESC`
	return r.query(ctx, "list user projects", query, userID)
}

func (r *ProjectRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]*models.Project, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(op, err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, err := scanProject(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// GetByID retrieves a project with its creator's name
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `SELECT ` + projectJoinedColumns + ` ` + projectFrom + ` WHERE p.id = $1`

	p, err := scanProject(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id), true)
	if err != nil {
		return nil, translateError("get project", err)
	}
	return p, nil
}

// Create inserts a project owned by ownerID. The creator's membership is added
// separately so the caller can bind both writes to one transaction.
func (r *ProjectRepository) Create(ctx context.Context, in models.ProjectInput, ownerID int64) (*models.Project, error) {
	query := `
		INSERT INTO projects (title, description, deadline, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + projectColumns

	p, err := scanProject(GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		in.Title,
		in.Description,
		in.Deadline,
		ownerID,
	), false)
	if err != nil {
		return nil, translateError("create project", err)
	}

	r.logger.Debug("project created", zap.Int64("id", p.ID), zap.Int64("created_by", ownerID))
	return p, nil
}

// Update applies the supplied fields and refreshes updated_at
func (r *ProjectRepository) Update(ctx context.Context, id int64, patch models.ProjectPatch) (*models.Project, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Value)
	}
	if patch.Deadline.Set {
		set.add("deadline", patch.Deadline.Value)
	}
	set.raw("updated_at = NOW()")

	query, args := set.build("projects", id, projectColumns)
	p, err := scanProject(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...), false)
	if err != nil {
		return nil, translateError("update project", err)
	}

	r.logger.Debug("project updated", zap.Int64("id", id))
	return p, nil
}

// Delete deletes a project; memberships cascade
func (r *ProjectRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	ok, err := deleted("delete project", result, err)
	if ok {
		r.logger.Debug("project deleted", zap.Int64("id", id))
	}
	return ok, err
}

// AddMember adds a user to the roster; re-adding is a no-op
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID int64) error {
	query := `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, projectID, userID); err != nil {
		return translateError("add project member", err)
	}

	r.logger.Debug("project member added", zap.Int64("project_id", projectID), zap.Int64("user_id", userID))
	return nil
}

// RemoveMember removes a user from the roster
func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID int64) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	ok, err := deleted("remove project member", result, err)
	if ok {
		r.logger.Debug("project member removed", zap.Int64("project_id", projectID), zap.Int64("user_id", userID))
	}
	return ok, err
}

// ListMembers returns the roster with member names, in join order
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID int64) ([]*models.ProjectMember, error) {
	query := `
		SELECT pm.project_id, u.id, u.name, u.email, pm.joined_at
		FROM project_members pm
		JOIN users u ON pm.user_id = u.id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at ASC
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, translateError("list project members", err)
	}
	defer rows.Close()

	members := []*models.ProjectMember{}
	for rows.Next() {
		m := &models.ProjectMember{}
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Name, &m.Email, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

// MemberIDs returns the user ids on the roster
func (r *ProjectRepository) MemberIDs(ctx context.Context, projectID int64) ([]int64, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT user_id FROM project_members WHERE project_id = $1 ORDER BY joined_at ASC`, projectID)
	if err != nil {
		return nil, translateError("list project member ids", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return ids, nil
}
