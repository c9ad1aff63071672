package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CatalogRefreshJobName is the name of the catalog refresh job
const CatalogRefreshJobName = "catalog_refresh"

// DefaultCatalogRefreshTimeout bounds a single catalog fetch. The
// spreadsheet is small, so a slow fetch means upstream trouble.
const DefaultCatalogRefreshTimeout = 2 * time.Minute

// CatalogRefresher pulls a fresh snapshot of the reference catalog into
// the in-memory cache. This interface lets the job call the catalog
// service without importing the catalog package directly.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefreshJob re-fetches the spreadsheet catalog on a schedule so
// the daily TTL never expires during business hours.
type CatalogRefreshJob struct {
	catalog CatalogRefresher
	logger  *zap.Logger
	timeout time.Duration
}

// NewCatalogRefreshJob creates a new catalog refresh job.
func NewCatalogRefreshJob(catalog CatalogRefresher, logger *zap.Logger, timeout time.Duration) *CatalogRefreshJob {
	return &CatalogRefreshJob{
		catalog: catalog,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the catalog refresh.
// This is called by the scheduler according to the cron expression.
func (j *CatalogRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	if err := j.catalog.Refresh(ctx); err != nil {
		// A failed refresh is non-fatal; the cache keeps serving the
		// previous snapshot until the next scheduled run succeeds.
		j.logger.Error("catalog refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("catalog refresh completed",
		zap.Duration("duration", time.Since(start)))
}

// RegisterCatalogRefreshJob registers the catalog refresh job with the
// scheduler. If warmStart is true the catalog is also fetched once
// immediately in a background goroutine so the first request after boot
// doesn't pay the fetch latency.
func RegisterCatalogRefreshJob(scheduler *Scheduler, catalog CatalogRefresher, logger *zap.Logger, cronExpr string, warmStart bool) error {
	job := NewCatalogRefreshJob(catalog, logger, DefaultCatalogRefreshTimeout)

	if warmStart {
		go job.Run()
	}

	return scheduler.AddJob(CatalogRefreshJobName, cronExpr, job.Run)
}
