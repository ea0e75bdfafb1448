package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type stubOutbox struct {
	before  time.Time
	deleted int64
	err     error
}

func (s *stubOutbox) ProcessPending(ctx context.Context, limit, maxRetries int, fn func(*model.OutboxEvent) error) (int, int, error) {
	return 0, 0, nil
}

func (s *stubOutbox) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	s.before = before
	return s.deleted, s.err
}

func TestCleanup(t *testing.T) {
	repo := &stubOutbox{deleted: 12}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	w := NewOutboxCleanupWorker(repo, 7, time.Hour, logger.NewLogger(&logger.Config{Output: io.Discard}), m)
	w.now = func() time.Time { return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC) }

	rows, err := w.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), rows)
	assert.Equal(t, time.Date(2024, 5, 13, 12, 0, 0, 0, time.UTC), repo.before)
	assert.Equal(t, 12.0, testutil.ToFloat64(m.OutboxEventsPurged))
}

func TestCleanup_Error(t *testing.T) {
	repo := &stubOutbox{err: errors.New("deadlock detected")}
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	w := NewOutboxCleanupWorker(repo, 7, time.Hour, logger.NewLogger(&logger.Config{Output: io.Discard}), m)

	_, err := w.Cleanup(context.Background())
	assert.ErrorContains(t, err, "deadlock detected")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("purge_outbox", "error")))
}
