package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRefresher struct {
	calls int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	atomic.AddInt32(&r.calls, 1)
	return r.err
}

func TestCatalogRefreshJob_Run(t *testing.T) {
	t.Run("invokes the refresher", func(t *testing.T) {
		refresher := &countingRefresher{}
		job := NewCatalogRefreshJob(refresher, zap.NewNop(), time.Second)

		job.Run()

		assert.Equal(t, int32(1), atomic.LoadInt32(&refresher.calls))
	})

	t.Run("refresh failure does not panic", func(t *testing.T) {
		refresher := &countingRefresher{err: errors.New("upstream down")}
		job := NewCatalogRefreshJob(refresher, zap.NewNop(), time.Second)

		job.Run()

		assert.Equal(t, int32(1), atomic.LoadInt32(&refresher.calls))
	})
}

func TestScheduler_AddJob(t *testing.T) {
	scheduler := NewScheduler(zap.NewNop())

	require.NoError(t, scheduler.AddJob("refresh", "@daily", func() {}))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := scheduler.AddJob("refresh", "@daily", func() {})
		assert.Error(t, err)
	})

	t.Run("bad cron expression rejected", func(t *testing.T) {
		err := scheduler.AddJob("other", "not a cron expr", func() {})
		assert.Error(t, err)
	})
}
