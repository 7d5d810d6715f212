package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeUser struct {
	email, password string

	regResp *models.User
	regErr  error

	loginResp *services.TokenPair
	loginErr  error
}

func (f *fakeUser) Register(_ context.Context, email, password string) (*models.User, error) {
	f.email, f.password = email, password
	return f.regResp, f.regErr
}

func (f *fakeUser) Login(_ context.Context, email, password string) (*services.TokenPair, error) {
	f.email, f.password = email, password
	return f.loginResp, f.loginErr
}

type fakeTask struct {
	calls int
	owner string
	id    string
	text  string
	dl    *time.Time
	upd   models.TaskUpdate

	out  *models.Task
	list []*models.Task
	err  error
}

func (f *fakeTask) Create(_ context.Context, owner, text string, d *time.Time) (*models.Task, error) {
	f.calls++
	f.owner, f.text, f.dl = owner, text, d
	return f.out, f.err
}

func (f *fakeTask) List(_ context.Context, owner string) ([]*models.Task, error) {
	f.calls++
	f.owner = owner
	return f.list, f.err
}

func (f *fakeTask) Update(_ context.Context, owner, id string, upd models.TaskUpdate) (*models.Task, error) {
	f.calls++
	f.owner, f.id, f.upd = owner, id, upd
	return f.out, f.err
}

func (f *fakeTask) Delete(_ context.Context, owner, id string) error {
	f.calls++
	f.owner, f.id = owner, id
	return f.err
}

type fakeExport struct {
	owner string
	out   *services.Export
	err   error
}

func (f *fakeExport) Export(_ context.Context, owner string) (*services.Export, error) {
	f.owner = owner
	return f.out, f.err
}

// presenceServer accepts any non-empty user id, like the original API.
func presenceServer(u *fakeUser, ts *fakeTask, es *fakeExport) *Server {
	return NewServer(":0", nopLogger{}, u, ts, es, identity.NewGate(identity.PresenceVerifier{}), PresenceID)
}

func jwtServer(u *fakeUser, ts *fakeTask, es *fakeExport) *Server {
	return NewServer(":0", nopLogger{}, u, ts, es, identity.NewGate(identity.NewJWTVerifier([]byte("k"))), BearerToken)
}

func do(t *testing.T, s *Server, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func ptr[T any](v T) *T { return &v }

var (
	created = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	due     = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func sampleTask() *models.Task {
	return &models.Task{ID: "t1", UserID: "u1", Text: "Buy milk", Deadline: &due, CreatedAt: created, UpdatedAt: created}
}
