// Package tasks persists to-do items. Every operation is scoped to an owner:
// a task that exists but belongs to someone else is indistinguishable from
// one that does not exist.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/server/models"
)

type Repository interface {
	// Create stores task as given; ID and UserID must be set. CreatedAt and
	// UpdatedAt are filled in from the database.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// ListByUser returns all tasks of userID ordered by creation time.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	// Update applies upd to the task id of userID and returns the result,
	// or common.ErrorNotFound.
	Update(ctx context.Context, userID, id string, upd models.TaskUpdate) (*models.Task, error)
	// Delete removes the task id of userID, or returns common.ErrorNotFound.
	Delete(ctx context.Context, userID, id string) error
}
