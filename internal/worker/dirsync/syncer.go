package dirsync

import (
	"context"
	"log/slog"
	"time"

	"github.com/DerDob/kleiderkammer/internal/service"
)

// SyncMetrics records the outcome of sync runs. May be nil.
type SyncMetrics interface {
	RecordSyncSuccess(users int, duration time.Duration)
	RecordSyncFailure(duration time.Duration)
}

// Syncer periodically refreshes the directory snapshot. Failures are logged
// and swallowed; the previous snapshot stays available until the next
// scheduled run. Sync never interferes with request handling.
type Syncer struct {
	client    *Client
	directory *service.Directory
	logger    *slog.Logger
	metrics   SyncMetrics
}

// NewSyncer creates a new Syncer.
func NewSyncer(client *Client, directory *service.Directory, logger *slog.Logger, metrics SyncMetrics) *Syncer {
	return &Syncer{
		client:    client,
		directory: directory,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start runs one sync immediately, then on every tick of interval until the
// context is canceled.
func (s *Syncer) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("directory sync started", "interval", interval)

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("directory sync stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce fetches the user list and replaces the snapshot. On failure the
// old snapshot is kept; the attempt is not retried before the next tick.
func (s *Syncer) RunOnce(ctx context.Context) {
	start := time.Now()

	users, err := s.client.FetchUsers(ctx)
	if err != nil {
		s.logger.Warn("directory sync failed, keeping previous snapshot", "error", err)
		if s.metrics != nil {
			s.metrics.RecordSyncFailure(time.Since(start))
		}
		return
	}

	s.directory.Replace(users)
	s.logger.Info("directory snapshot refreshed", "users", len(users))
	if s.metrics != nil {
		s.metrics.RecordSyncSuccess(len(users), time.Since(start))
	}
}
