package catalog

import (
	"context"
	"io"
	"time"
)

// ObjectStorage defines the object storage operations the video service needs.
// It is implemented by the infrastructure layer (S3-compatible buckets, memory).
type ObjectStorage interface {
	// Upload stores body under key. size may be -1 when unknown.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete removes key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error

	// PresignUpload returns a URL the browser can PUT the file to, and its expiry
	PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error)

	// PublicURL returns the URL the catalog stores for key
	PublicURL(key string) string

	// KeyFromURL reverses PublicURL. It reports false for URLs outside the bucket.
	KeyFromURL(rawURL string) (string, bool)
}

// SnapshotCache stores the public catalog read model between writes
type SnapshotCache interface {
	// Get returns the cached catalog; found is false on a miss
	Get(ctx context.Context) (catalog *PublicCatalog, found bool, err error)
	Set(ctx context.Context, catalog *PublicCatalog) error
	Invalidate(ctx context.Context) error
}

// MetricsRecorder receives catalog business metrics
type MetricsRecorder interface {
	RecordMutation(ctx context.Context, entity, action string)
	RecordOrphanedExercises(ctx context.Context, count int)
}

type noopMetrics struct{}

func (noopMetrics) RecordMutation(context.Context, string, string) {}
func (noopMetrics) RecordOrphanedExercises(context.Context, int) {}
