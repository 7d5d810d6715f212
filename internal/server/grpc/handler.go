package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/api"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/deadline"
	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

// fail logs err when it is not a caller mistake and converts it to a status.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	if common.Kind(err) == common.ErrorInternal {
		s.logger.Error(ctx, op+" failed", "error", err.Error())
	}
	return api.ToStatus(err)
}

func owner(ctx context.Context) (string, error) {
	id, ok := identity.UserIDFromContext(ctx)
	if !ok {
		return "", common.ErrUnauthenticated
	}
	return id, nil
}

func toAPITask(t *models.Task) *api.Task {
	return &api.Task{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		Deadline:  deadline.Format(t.Deadline),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	u, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "register", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return &api.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "login", err)
	}

	return &api.LoginResponse{
		UserID:       tokens.UserID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "refresh token", err)
	}

	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *api.LogoutRequest) (*api.LogoutResponse, error) {
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.fail(ctx, "logout", err)
	}
	return &api.LogoutResponse{}, nil
}

func (s *GRPCServer) ListTasks(ctx context.Context, _ *api.ListTasksRequest) (*api.ListTasksResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list tasks", err)
	}

	list, err := s.tasks.List(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "list tasks", err)
	}

	out := make([]*api.Task, 0, len(list))
	for _, t := range list {
		out = append(out, toAPITask(t))
	}
	return &api.ListTasksResponse{Tasks: out}, nil
}

func (s *GRPCServer) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.CreateTaskResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, s.fail(ctx, "create task", err)
	}

	d, err := deadline.Parse(req.Deadline)
	if err != nil {
		return nil, s.fail(ctx, "create task", err)
	}

	t, err := s.tasks.Create(ctx, userID, req.Text, d)
	if err != nil {
		return nil, s.fail(ctx, "create task", err)
	}
	return &api.CreateTaskResponse{Task: toAPITask(t)}, nil
}

// UpdateTask applies the fields present in req. An empty Deadline string
// clears the deadline like ClearDeadline does.
func (s *GRPCServer) UpdateTask(ctx context.Context, req *api.UpdateTaskRequest) (*api.UpdateTaskResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, s.fail(ctx, "update task", err)
	}

	upd := models.TaskUpdate{
		Text:          req.Text,
		Completed:     req.Completed,
		ClearDeadline: req.ClearDeadline,
	}
	if req.Deadline != nil && !req.ClearDeadline {
		d, err := deadline.Parse(*req.Deadline)
		if err != nil {
			return nil, s.fail(ctx, "update task", err)
		}
		if d == nil {
			upd.ClearDeadline = true
		}
		upd.Deadline = d
	}

	t, err := s.tasks.Update(ctx, userID, req.ID, upd)
	if err != nil {
		return nil, s.fail(ctx, "update task", err)
	}
	return &api.UpdateTaskResponse{Task: toAPITask(t)}, nil
}

func (s *GRPCServer) DeleteTask(ctx context.Context, req *api.DeleteTaskRequest) (*api.DeleteTaskResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, s.fail(ctx, "delete task", err)
	}

	if err := s.tasks.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.fail(ctx, "delete task", err)
	}
	return &api.DeleteTaskResponse{}, nil
}

func (s *GRPCServer) ExportTasks(ctx context.Context, _ *api.ExportTasksRequest) (*api.ExportTasksResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, s.fail(ctx, "export tasks", err)
	}

	e, err := s.exports.Export(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "export tasks", err)
	}

	s.logger.Info(ctx, "Exported tasks", "user_id", userID, "key", e.Key, "count", e.Count)
	return &api.ExportTasksResponse{
		Key:       e.Key,
		URL:       e.URL,
		ExpiresAt: e.ExpiresAt.UTC().Format(time.RFC3339),
		Count:     e.Count,
	}, nil
}

func (s *GRPCServer) Ping(context.Context, *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}
