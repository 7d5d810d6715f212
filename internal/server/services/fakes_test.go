package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/dbx"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/gophtodo/internal/server/repositories/refreshtokens"
	tasksrepo "github.com/dmitrijs2005/gophtodo/internal/server/repositories/tasks"
	usersrepo "github.com/dmitrijs2005/gophtodo/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memUsers keeps accounts in memory. Emails are unique.
type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	n       int
	getErr  error
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	m.n++
	cp := *u
	cp.ID = testUUID(m.n)
	cp.CreatedAt = time.Now().UTC()
	m.byEmail[u.Email] = &cp
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

type fakeRefreshRepo struct {
	consumeOut *models.RefreshToken
	consumeErr error
	consumed   []string

	delErr        error
	deleted       []string
	createErr     error
	created       []*models.RefreshToken
	expiredErr    error
	expiredPurged []string
}

func (f *fakeRefreshRepo) Create(_ context.Context, t *models.RefreshToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, t)
	return nil
}

func (f *fakeRefreshRepo) Consume(_ context.Context, token string) (*models.RefreshToken, error) {
	if f.consumeErr != nil {
		return nil, f.consumeErr
	}
	f.consumed = append(f.consumed, token)
	return f.consumeOut, nil
}

func (f *fakeRefreshRepo) Delete(_ context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context, userID string, _ time.Time) error {
	if f.expiredErr != nil {
		return f.expiredErr
	}
	f.expiredPurged = append(f.expiredPurged, userID)
	return nil
}

// memTasks is an owner-scoped in-memory task store with the same contract as
// the Postgres repository.
type memTasks struct {
	mu    sync.Mutex
	tasks []*models.Task
	err   error
}

func (m *memTasks) Create(_ context.Context, t *models.Task) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	cp := *t
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	m.tasks = append(m.tasks, &cp)
	out := cp
	return &out, nil
}

func (m *memTasks) ListByUser(_ context.Context, userID string) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*models.Task, 0)
	for _, t := range m.tasks {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memTasks) find(userID, id string) *models.Task {
	for _, t := range m.tasks {
		if t.ID == id && t.UserID == userID {
			return t
		}
	}
	return nil
}

func (m *memTasks) Update(_ context.Context, userID, id string, upd models.TaskUpdate) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	t := m.find(userID, id)
	if t == nil {
		return nil, common.ErrorNotFound
	}
	if upd.Text != nil {
		t.Text = *upd.Text
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	switch {
	case upd.ClearDeadline:
		t.Deadline = nil
	case upd.Deadline != nil:
		d := *upd.Deadline
		t.Deadline = &d
	}
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	return &cp, nil
}

func (m *memTasks) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, t := range m.tasks {
		if t.ID == id && t.UserID == userID {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u usersrepo.Repository
	t tasksrepo.Repository
	r refreshtokensrepo.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository                 { return m.t }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }

// testUUID returns a deterministic, valid UUID for n.
func testUUID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}
