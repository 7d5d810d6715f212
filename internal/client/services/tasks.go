package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/tasklist"
)

// TaskService runs task operations for the signed-in user. Every call that
// changes a task returns a view rebuilt from a fresh list, so what is shown
// always matches the server.
type TaskService interface {
	View(ctx context.Context) (tasklist.View, error)
	Add(ctx context.Context, text string, deadline *time.Time) (tasklist.View, error)
	Edit(ctx context.Context, id string, upd client.TaskUpdate) (tasklist.View, error)
	Toggle(ctx context.Context, id string) (tasklist.View, error)
	Delete(ctx context.Context, id string) (tasklist.View, error)
	Export(ctx context.Context) (client.Export, error)
}

type taskService struct {
	client client.Client
	now    func() time.Time
}

// NewTaskService builds a TaskService. now defaults to time.Now.
func NewTaskService(c client.Client, now func() time.Time) TaskService {
	if now == nil {
		now = time.Now
	}
	return &taskService{client: c, now: now}
}

func (s *taskService) View(ctx context.Context) (tasklist.View, error) {
	tasks, err := s.client.ListTasks(ctx)
	if err != nil {
		return tasklist.View{}, err
	}
	return tasklist.Build(tasks, s.now()), nil
}

func (s *taskService) Add(ctx context.Context, text string, deadline *time.Time) (tasklist.View, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return tasklist.View{}, common.ErrEmptyText
	}
	if _, err := s.client.CreateTask(ctx, text, deadline); err != nil {
		return tasklist.View{}, err
	}
	return s.View(ctx)
}

func (s *taskService) Edit(ctx context.Context, id string, upd client.TaskUpdate) (tasklist.View, error) {
	if upd.Text != nil {
		text := strings.TrimSpace(*upd.Text)
		if text == "" {
			return tasklist.View{}, common.ErrEmptyText
		}
		upd.Text = &text
	}
	if upd.Text == nil && upd.Completed == nil && upd.Deadline == nil && !upd.ClearDeadline {
		return tasklist.View{}, common.ErrNoFieldsToUpdate
	}
	if _, err := s.client.UpdateTask(ctx, id, upd); err != nil {
		return tasklist.View{}, err
	}
	return s.View(ctx)
}

// Toggle flips the completion state of a task as currently stored.
func (s *taskService) Toggle(ctx context.Context, id string) (tasklist.View, error) {
	current, err := s.View(ctx)
	if err != nil {
		return tasklist.View{}, err
	}
	item, ok := current.Find(id)
	if !ok {
		return tasklist.View{}, common.ErrorNotFound
	}

	completed := !item.Completed
	if _, err := s.client.UpdateTask(ctx, id, client.TaskUpdate{Completed: &completed}); err != nil {
		return tasklist.View{}, err
	}
	return s.View(ctx)
}

func (s *taskService) Delete(ctx context.Context, id string) (tasklist.View, error) {
	if err := s.client.DeleteTask(ctx, id); err != nil {
		return tasklist.View{}, err
	}
	return s.View(ctx)
}

func (s *taskService) Export(ctx context.Context) (client.Export, error) {
	return s.client.ExportTasks(ctx)
}
