package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/api"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/deadline"
	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const callTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	dialOptions []grpc.DialOption
	onRefresh   func(Session)

	conn   *grpc.ClientConn
	client api.TodoServiceClient

	mu        sync.Mutex
	session   Session
	refreshMu sync.Mutex
}

// Option configures a GRPCClient.
type Option func(*GRPCClient)

// WithSessionListener registers fn to be called with the new session each
// time the tokens are rotated by a transparent refresh.
func WithSessionListener(fn func(Session)) Option {
	return func(c *GRPCClient) { c.onRefresh = fn }
}

// WithDialOptions appends extra dial options, such as a custom dialer.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOptions = append(c.dialOptions, opts...) }
}

func NewTodoClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.credentialsInterceptor),
	}, s.dialOptions...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewTodoServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *GRPCClient) SetSession(sess Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
}

// withCredentials attaches both the access token and the user id, so the
// same client works whichever identity mode the server runs in.
func withCredentials(ctx context.Context, sess Session) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Delete(common.UserIDHeaderName)
	if sess.AccessToken != "" {
		md.Set(common.AccessTokenHeaderName, sess.AccessToken)
	}
	if sess.UserID != "" {
		md.Set(common.UserIDHeaderName, sess.UserID)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// credentialsInterceptor sends the session credentials with every call. A
// call rejected only because the access token expired is re-issued once
// after the tokens have been refreshed.
func (s *GRPCClient) credentialsInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	sess := s.Session()
	err := invoker(withCredentials(ctx, sess), method, req, reply, cc, opts...)
	if err == nil || method == api.MethodRefreshToken {
		return err
	}
	if api.Reason(err) != api.ReasonTokenExpired || sess.RefreshToken == "" {
		return err
	}

	if err := s.refresh(ctx, sess.RefreshToken); err != nil {
		return err
	}

	return invoker(withCredentials(ctx, s.Session()), method, req, reply, cc, opts...)
}

// refresh rotates the token pair unless another call already rotated the
// stale refresh token.
func (s *GRPCClient) refresh(ctx context.Context, stale string) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.Session().RefreshToken != stale {
		return nil
	}

	resp, err := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: stale})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session.AccessToken = resp.AccessToken
	s.session.RefreshToken = resp.RefreshToken
	sess := s.session
	s.mu.Unlock()

	if s.onRefresh != nil {
		s.onRefresh(sess)
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return "", mapError(err)
	}
	return resp.UserID, nil
}

// Login replaces the current session with the one issued by the server.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (Session, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return Session{}, mapError(err)
	}

	sess := Session{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	s.SetSession(sess)
	return sess, nil
}

// Logout revokes the refresh token on the server. The local session is
// cleared even when the server cannot be reached.
func (s *GRPCClient) Logout(ctx context.Context) error {
	sess := s.Session()
	s.SetSession(Session{})

	if sess.RefreshToken == "" {
		return nil
	}
	_, err := s.client.Logout(ctx, &api.LogoutRequest{RefreshToken: sess.RefreshToken})
	return mapError(err)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) ListTasks(ctx context.Context) ([]tasklist.Task, error) {
	resp, err := s.client.ListTasks(ctx, &api.ListTasksRequest{})
	if err != nil {
		return nil, mapError(err)
	}

	tasks := make([]tasklist.Task, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		task, err := fromAPITask(t)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *GRPCClient) CreateTask(ctx context.Context, text string, d *time.Time) (tasklist.Task, error) {
	resp, err := s.client.CreateTask(ctx, &api.CreateTaskRequest{Text: text, Deadline: deadline.Format(d)})
	if err != nil {
		return tasklist.Task{}, mapError(err)
	}
	return fromAPITask(resp.Task)
}

func (s *GRPCClient) UpdateTask(ctx context.Context, id string, upd TaskUpdate) (tasklist.Task, error) {
	req := &api.UpdateTaskRequest{
		ID:            id,
		Text:          upd.Text,
		Completed:     upd.Completed,
		ClearDeadline: upd.ClearDeadline,
	}
	if upd.Deadline != nil && !upd.ClearDeadline {
		d := deadline.Format(upd.Deadline)
		req.Deadline = &d
	}

	resp, err := s.client.UpdateTask(ctx, req)
	if err != nil {
		return tasklist.Task{}, mapError(err)
	}
	return fromAPITask(resp.Task)
}

func (s *GRPCClient) DeleteTask(ctx context.Context, id string) error {
	_, err := s.client.DeleteTask(ctx, &api.DeleteTaskRequest{ID: id})
	return mapError(err)
}

func (s *GRPCClient) ExportTasks(ctx context.Context) (Export, error) {
	resp, err := s.client.ExportTasks(ctx, &api.ExportTasksRequest{})
	if err != nil {
		return Export{}, mapError(err)
	}

	expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	if err != nil {
		return Export{}, fmt.Errorf("bad export expiry %q: %w", resp.ExpiresAt, err)
	}
	return Export{Key: resp.Key, URL: resp.URL, ExpiresAt: expires, Count: resp.Count}, nil
}

func fromAPITask(t *api.Task) (tasklist.Task, error) {
	if t == nil {
		return tasklist.Task{}, errors.New("empty task in response")
	}

	task := tasklist.Task{ID: t.ID, Text: t.Text, Completed: t.Completed}

	if t.Deadline != "" {
		d, err := deadline.Parse(t.Deadline)
		if err != nil {
			return tasklist.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		task.Deadline = d
	}

	created, err := time.Parse(time.RFC3339, t.CreatedAt)
	if err != nil {
		return tasklist.Task{}, fmt.Errorf("task %s: bad created_at %q: %w", t.ID, t.CreatedAt, err)
	}
	task.CreatedAt = created

	return task, nil
}
