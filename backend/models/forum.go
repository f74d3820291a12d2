package models

import "time"

// ForumCategory groups threads. Categories have no owner.
type ForumCategory struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the ForumCategory model
func (ForumCategory) TableName() string {
	return "forum_categories"
}

// Author is the public identity attached to forum posts
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ForumThread is a discussion opened in a category
type ForumThread struct {
	ID         int64         `json:"id" db:"id"`
	Title      string        `json:"title" db:"title"`
	Content    string        `json:"content" db:"content"`
	CategoryID int64         `json:"category_id" db:"category_id"`
	CreatedBy  int64         `json:"created_by" db:"created_by"`
	Author     *Author       `json:"author,omitempty"`
	ReplyCount *int          `json:"reply_count,omitempty"`
	Replies    []*ForumReply `json:"replies,omitempty"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the ForumThread model
func (ForumThread) TableName() string {
	return "forum_threads"
}

// ForumReply is a response within a thread
type ForumReply struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	ThreadID  int64     `json:"thread_id" db:"thread_id"`
	CreatedBy int64     `json:"created_by" db:"created_by"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the ForumReply model
func (ForumReply) TableName() string {
	return "forum_replies"
}

// CategoryPatch holds the optional fields of a category update
type CategoryPatch struct {
	Name        *string
	Description Nullable[string]
}

// ThreadPatch holds the optional fields of a thread update
type ThreadPatch struct {
	Title   *string
	Content *string
}
