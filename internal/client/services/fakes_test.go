package services

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getSession(t *testing.T, db *sql.DB, k string) string {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM session WHERE key=?`, k).Scan(&v)
	require.NoError(t, err)
	return string(v)
}

func countSession(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM session`).Scan(&n))
	return n
}

// ---- fake client ----

// fakeClient is an in-memory client.Client.
type fakeClient struct {
	session client.Session
	tasks   []tasklist.Task
	nextID  int

	registerID  string
	loginResp   client.Session
	exportResp  client.Export
	err         error
	listErr     error
	logoutErr   error
	pingErr     error
	closed      bool
	listCalls   int
	lastEmail   string
	lastPass    string
	lastUpdate  client.TaskUpdate
	lastUpdated string
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Register(ctx context.Context, email, password string) (string, error) {
	f.lastEmail, f.lastPass = email, password
	return f.registerID, f.err
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (client.Session, error) {
	f.lastEmail, f.lastPass = email, password
	if f.err != nil {
		return client.Session{}, f.err
	}
	f.session = f.loginResp
	return f.loginResp, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.session = client.Session{}
	return f.logoutErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeClient) Session() client.Session { return f.session }

func (f *fakeClient) SetSession(s client.Session) { f.session = s }

func (f *fakeClient) ListTasks(ctx context.Context) ([]tasklist.Task, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]tasklist.Task(nil), f.tasks...), nil
}

func (f *fakeClient) CreateTask(ctx context.Context, text string, deadline *time.Time) (tasklist.Task, error) {
	if f.err != nil {
		return tasklist.Task{}, f.err
	}
	f.nextID++
	t := tasklist.Task{ID: fmt.Sprintf("t%d", f.nextID), Text: text, Deadline: deadline}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeClient) UpdateTask(ctx context.Context, id string, upd client.TaskUpdate) (tasklist.Task, error) {
	f.lastUpdated, f.lastUpdate = id, upd
	if f.err != nil {
		return tasklist.Task{}, f.err
	}
	for i := range f.tasks {
		t := &f.tasks[i]
		if t.ID != id {
			continue
		}
		if upd.Text != nil {
			t.Text = *upd.Text
		}
		if upd.Completed != nil {
			t.Completed = *upd.Completed
		}
		if upd.ClearDeadline {
			t.Deadline = nil
		} else if upd.Deadline != nil {
			t.Deadline = upd.Deadline
		}
		return *t, nil
	}
	return tasklist.Task{}, common.ErrorNotFound
}

func (f *fakeClient) DeleteTask(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeClient) ExportTasks(ctx context.Context) (client.Export, error) {
	return f.exportResp, f.err
}

func ptr[T any](v T) *T { return &v }
