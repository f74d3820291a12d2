package models

import "time"

// Project is a collaborative effort with a member roster
type Project struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Deadline    *time.Time `json:"deadline" db:"deadline"`
	CreatedBy   int64      `json:"created_by" db:"created_by"`
	CreatorName string     `json:"creator_name,omitempty" db:"creator_name"`
	Members     []int64    `json:"members,omitempty"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Project model
func (Project) TableName() string {
	return "projects"
}

// ProjectMember is one roster entry of a project
type ProjectMember struct {
	ProjectID int64     `json:"-" db:"project_id"`
	UserID    int64     `json:"id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
}

// ProjectInput holds the fields supplied when creating a project
type ProjectInput struct {
	Title       string
	Description *string
	Deadline    *time.Time
}

// ProjectPatch holds the optional fields of a project update
type ProjectPatch struct {
	Title       *string
	Description Nullable[string]
	Deadline    Nullable[time.Time]
}
