package models

import "time"

// Event is a dated association activity
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Location    *string   `json:"location" db:"location"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	CreatorName string    `json:"creator_name,omitempty" db:"creator_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Event model
func (Event) TableName() string {
	return "events"
}

// EventInput holds the fields supplied when creating an event
type EventInput struct {
	Title       string
	Description *string
	Location    *string
	StartDate   time.Time
	EndDate     time.Time
}

// EventPatch holds the optional fields of an event update
type EventPatch struct {
	Title       *string
	Description Nullable[string]
	Location    Nullable[string]
	StartDate   *time.Time
	EndDate     *time.Time
}
