package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/deadline"
	"github.com/dmitrijs2005/gophtodo/internal/server/objectstore"
	"github.com/google/uuid"
)

// Export describes an uploaded snapshot.
type Export struct {
	Key       string
	URL       string
	ExpiresAt time.Time
	Count     int
}

type snapshotTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Deadline  string `json:"deadline,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type snapshot struct {
	UserID     string         `json:"user_id"`
	ExportedAt string         `json:"exported_at"`
	Tasks      []snapshotTask `json:"tasks"`
}

// ExportService writes a JSON snapshot of a user's tasks to object storage
// and returns a presigned download link.
type ExportService struct {
	tasks    *TaskService
	store    objectstore.Store
	validity time.Duration
	now      func() time.Time
}

func NewExportService(tasks *TaskService, store objectstore.Store, linkValidity time.Duration) *ExportService {
	return &ExportService{
		tasks:    tasks,
		store:    store,
		validity: linkValidity,
		now:      time.Now,
	}
}

// storageKey places exports under the owner and the UTC export date.
func storageKey(owner string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", owner, at.Year(), at.Month(), at.Day(), uuid.New())
}

// Export snapshots every task of owner.
func (s *ExportService) Export(ctx context.Context, owner string) (*Export, error) {
	list, err := s.tasks.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	snap := snapshot{
		UserID:     owner,
		ExportedAt: now.Format(time.RFC3339),
		Tasks:      make([]snapshotTask, 0, len(list)),
	}
	for _, t := range list {
		snap.Tasks = append(snap.Tasks, snapshotTask{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Deadline:  deadline.Format(t.Deadline),
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, internal(err)
	}

	key := storageKey(owner, now)
	if err := s.store.Put(ctx, key, "application/json", body); err != nil {
		return nil, internal(err)
	}

	url, err := s.store.PresignGet(ctx, key, s.validity)
	if err != nil {
		return nil, internal(err)
	}

	return &Export{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(s.validity),
		Count:     len(snap.Tasks),
	}, nil
}
