package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
)

// Client is the CLI's view of the to-do service.
type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (Session, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Session() Session
	SetSession(s Session)
	ListTasks(ctx context.Context) ([]tasklist.Task, error)
	CreateTask(ctx context.Context, text string, deadline *time.Time) (tasklist.Task, error)
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) (tasklist.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ExportTasks(ctx context.Context) (Export, error)
}

// Session is the signed-in state of the client. The zero value means
// signed out.
type Session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// Active reports whether the session carries credentials.
func (s Session) Active() bool {
	return s.UserID != "" && s.AccessToken != ""
}

// TaskUpdate lists the fields to change. Nil fields are left as they are;
// ClearDeadline removes the deadline and wins over Deadline.
type TaskUpdate struct {
	Text          *string
	Completed     *bool
	Deadline      *time.Time
	ClearDeadline bool
}

// Export describes a finished task snapshot.
type Export struct {
	Key       string
	URL       string
	ExpiresAt time.Time
	Count     int
}
