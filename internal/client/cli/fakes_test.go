package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/client/config"
	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
)

var testNow = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type fakeAuth struct {
	regEmail string
	regPass  []byte
	regErr   error

	loginEmail string
	loginPass  []byte
	loginErr   error

	restoreEmail string
	restoreErr   error

	logoutCalls int
	logoutErr   error
	pingErr     error
	closed      bool
}

func (f *fakeAuth) Register(_ context.Context, email string, pass []byte) (string, error) {
	f.regEmail, f.regPass = email, append([]byte(nil), pass...)
	return "u1", f.regErr
}
func (f *fakeAuth) Login(_ context.Context, email string, pass []byte) (client.Session, error) {
	f.loginEmail, f.loginPass = email, append([]byte(nil), pass...)
	return client.Session{UserID: "u1", AccessToken: "A", RefreshToken: "R"}, f.loginErr
}
func (f *fakeAuth) Restore(context.Context) (string, error) { return f.restoreEmail, f.restoreErr }
func (f *fakeAuth) SaveSession(context.Context, client.Session) error {
	return nil
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}
func (f *fakeAuth) Ping(context.Context) error        { return f.pingErr }
func (f *fakeAuth) Close(ctx context.Context) error { f.closed = true; return nil }

// fakeTasks keeps tasks in memory and rebuilds the view like the real
// service.
type fakeTasks struct {
	tasks []tasklist.Task
	err   error

	viewCalls  int
	addedText  string
	addedDue   *time.Time
	editedID   string
	edit       client.TaskUpdate
	toggledID  string
	deletedID  string
	exportResp client.Export
}

func (f *fakeTasks) build() tasklist.View { return tasklist.Build(f.tasks, testNow) }

func (f *fakeTasks) View(context.Context) (tasklist.View, error) {
	f.viewCalls++
	if f.err != nil {
		return tasklist.View{}, f.err
	}
	return f.build(), nil
}
func (f *fakeTasks) Add(_ context.Context, text string, d *time.Time) (tasklist.View, error) {
	f.addedText, f.addedDue = text, d
	if f.err != nil {
		return tasklist.View{}, f.err
	}
	f.tasks = append(f.tasks, tasklist.Task{ID: "new", Text: text, Deadline: d})
	return f.build(), nil
}
func (f *fakeTasks) Edit(_ context.Context, id string, upd client.TaskUpdate) (tasklist.View, error) {
	f.editedID, f.edit = id, upd
	return f.build(), f.err
}
func (f *fakeTasks) Toggle(_ context.Context, id string) (tasklist.View, error) {
	f.toggledID = id
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Completed = !f.tasks[i].Completed
		}
	}
	return f.build(), f.err
}
func (f *fakeTasks) Delete(_ context.Context, id string) (tasklist.View, error) {
	f.deletedID = id
	return f.build(), f.err
}
func (f *fakeTasks) Export(context.Context) (client.Export, error) {
	return f.exportResp, f.err
}

func sampleTasks() []tasklist.Task {
	return []tasklist.Task{
		{ID: "t-milk", Text: "Buy milk", Completed: true},
		{ID: "t-rent", Text: "Pay rent", Deadline: ptr(testNow.Add(26 * time.Hour))},
		{ID: "t-dog", Text: "Walk dog"},
	}
}

func newTestApp(t *testing.T, fa *fakeAuth, ft *fakeTasks, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.CountdownTick = time.Millisecond
	return &App{
		config:      cfg,
		authService: fa,
		taskService: ft,
		reader:      bufio.NewReader(strings.NewReader(input)),
		out:         &out,
		now:         func() time.Time { return testNow },
		loc:         time.UTC,
		loggedIn:    true,
		email:       "alice@example.com",
	}, &out
}

// stubPassword makes the password prompt return pw.
func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}
