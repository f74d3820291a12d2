package postgres

import (
	"context"
	"fmt"

	"github.com/upb/association-hub/backend/models"
	"github.com/upb/association-hub/backend/repositories"
	"go.uber.org/zap"
)

const (
	eventColumns       = "id, title, description, location, start_date, end_date, created_by, created_at, updated_at"
	eventJoinedColumns = "e.id, e.title, e.description, e.location, e.start_date, e.end_date, e.created_by, e.created_at, e.updated_at, u.name"
	eventFrom          = "FROM events e JOIN users u ON e.created_by = u.id"
)

// EventRepository implements the repositories.EventRepository interface
type EventRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB, logger *zap.Logger) repositories.EventRepository {
	return &EventRepository{
		db:     db,
		logger: logger,
	}
}

func scanEvent(row rowScanner, withCreator bool) (*models.Event, error) {
	e := &models.Event{}
	dest := []interface{}{
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.StartDate,
		&e.EndDate,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	}
	if withCreator {
		dest = append(dest, &e.CreatorName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

// List retrieves all events ordered by start date
func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventJoinedColumns + ` ` + eventFrom + ` ORDER BY e.start_date ASC`
	return r.query(ctx, "list events", query)
}

// ListUpcoming retrieves the next events that have not started yet
func (r *EventRepository) ListUpcoming(ctx context.Context, limit int) ([]*models.Event, error) {
	query := `SELECT ` + eventJoinedColumns + ` ` + eventFrom + `
		WHERE e.start_date > NOW()
		ORDER BY e.start_date ASC
		LIMIT $1`
	return r.query(ctx, "list upcoming events", query, limit)
}

func (r *EventRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateError(op, err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

// GetByID retrieves an event with its creator's name
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventJoinedColumns + ` ` + eventFrom + ` WHERE e.id = $1`

	e, err := scanEvent(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id), true)
	if err != nil {
		return nil, translateError("get event", err)
	}
	return e, nil
}

// Create inserts an event owned by ownerID
func (r *EventRepository) Create(ctx context.Context, in models.EventInput, ownerID int64) (*models.Event, error) {
	query := `
		INSERT INTO events (title, description, location, start_date, end_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	e, err := scanEvent(GetExecutor(ctx, r.db).QueryRowContext(ctx, query,
		in.Title,
		in.Description,
		in.Location,
		in.StartDate,
		in.EndDate,
		ownerID,
	), false)
	if err != nil {
		return nil, translateError("create event", err)
	}

	r.logger.Debug("event created", zap.Int64("id", e.ID), zap.Int64("created_by", ownerID))
	return e, nil
}

// Update applies the supplied fields and refreshes updated_at
func (r *EventRepository) Update(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	var set setClause
	if patch.Title != nil {
		set.add("title", *patch.Title)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Value)
	}
	if patch.Location.Set {
		set.add("location", patch.Location.Value)
	}
	if patch.StartDate != nil {
		set.add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		set.add("end_date", *patch.EndDate)
	}
	set.raw("updated_at = NOW()")

	query, args := set.build("events", id, eventColumns)
	e, err := scanEvent(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, args...), false)
	if err != nil {
		return nil, translateError("update event", err)
	}

	r.logger.Debug("event updated", zap.Int64("id", id))
	return e, nil
}

// Delete deletes an event
func (r *EventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	ok, err := deleted("delete event", result, err)
	if ok {
		r.logger.Debug("event deleted", zap.Int64("id", id))
	}
	return ok, err
}
