package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/dmitrijs2005/gophtodo/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TaskService implements owner-scoped task operations. owner is always the
// identity resolved by the transport, never a value taken from the request
// body.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	newID       func() string
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{
		db:          db,
		repomanager: m,
		newID:       uuid.NewString,
	}
}

// checkOwner rejects identities that cannot belong to a stored user.
func checkOwner(owner string) error {
	if err := identity.RequireOwner(owner); err != nil {
		return err
	}
	if _, err := uuid.Parse(owner); err != nil {
		return common.ErrUnauthenticated
	}
	return nil
}

// Create stores a new incomplete task for owner. Text is trimmed and must
// not be empty afterwards.
func (s *TaskService) Create(ctx context.Context, owner, text string, deadline *time.Time) (*models.Task, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyText
	}

	t, err := s.repomanager.Tasks(s.db).Create(ctx, &models.Task{
		ID:        s.newID(),
		UserID:    owner,
		Text:      text,
		Completed: false,
		Deadline:  utc(deadline),
	})
	if err != nil {
		return nil, internal(err)
	}
	return t, nil
}

// List returns every task of owner in creation order.
func (s *TaskService) List(ctx context.Context, owner string) ([]*models.Task, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}

	ts, err := s.repomanager.Tasks(s.db).ListByUser(ctx, owner)
	if err != nil {
		return nil, internal(err)
	}
	return ts, nil
}

// Update changes the supplied fields of task id if it belongs to owner.
// A task of another user is reported as common.ErrorNotFound.
func (s *TaskService) Update(ctx context.Context, owner, id string, upd models.TaskUpdate) (*models.Task, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, common.ErrMissingTaskID
	}
	if upd.Empty() {
		return nil, common.ErrNoFieldsToUpdate
	}
	if upd.Text != nil {
		text := strings.TrimSpace(*upd.Text)
		if text == "" {
			return nil, common.ErrEmptyText
		}
		upd.Text = &text
	}
	upd.Deadline = utc(upd.Deadline)

	t, err := s.repomanager.Tasks(s.db).Update(ctx, owner, strings.TrimSpace(id), upd)
	if err != nil {
		return nil, internal(err)
	}
	return t, nil
}

// Delete removes task id if it belongs to owner.
func (s *TaskService) Delete(ctx context.Context, owner, id string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return common.ErrMissingTaskID
	}

	if err := s.repomanager.Tasks(s.db).Delete(ctx, owner, strings.TrimSpace(id)); err != nil {
		return internal(err)
	}
	return nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Second)
	return &u
}
