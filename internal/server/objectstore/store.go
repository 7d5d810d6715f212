// Package objectstore writes export snapshots to an S3-compatible bucket and
// hands out time-limited download links for them.
package objectstore

import (
	"context"
	"time"
)

// Store is the object storage used by task exports.
type Store interface {
	// Put uploads body under key.
	Put(ctx context.Context, key, contentType string, body []byte) error
	// PresignGet returns a URL that downloads key until ttl elapses.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
