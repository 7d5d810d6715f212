package models

import "time"

// Task is one to-do item owned by exactly one user. Deadline is nil when the
// task has none.
type Task struct {
	ID        string
	UserID    string
	Text      string
	Completed bool
	Deadline  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskUpdate lists the fields an update sets; nil fields are left alone.
// ClearDeadline removes the deadline and wins over Deadline.
type TaskUpdate struct {
	Text          *string
	Completed     *bool
	Deadline      *time.Time
	ClearDeadline bool
}

// Empty reports whether the update would change nothing.
func (u TaskUpdate) Empty() bool {
	return u.Text == nil && u.Completed == nil && u.Deadline == nil && !u.ClearDeadline
}
