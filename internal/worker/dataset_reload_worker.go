package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/creator_match_api/internal/cache"
	"github.com/GTDGit/creator_match_api/internal/dataset"
	"github.com/GTDGit/creator_match_api/internal/metrics"
)

// DatasetSource produces a fresh dataset.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)
	Source() string
}

// DatasetSwapper installs a dataset for subsequent reads.
type DatasetSwapper interface {
	Swap(ds *dataset.Dataset)
}

// DatasetReloadWorker reloads the in-memory dataset on a cron schedule and
// drops cached analysis results computed from the previous one.
type DatasetReloadWorker struct {
	source  DatasetSource
	store   DatasetSwapper
	cache   *cache.ResultCache
	metrics *metrics.Metrics
	timeout time.Duration

	cron *cron.Cron
}

// NewDatasetReloadWorker constructs a DatasetReloadWorker. cache and metrics may be nil.
func NewDatasetReloadWorker(source DatasetSource, store DatasetSwapper, resultCache *cache.ResultCache, m *metrics.Metrics) *DatasetReloadWorker {
	return &DatasetReloadWorker{
		source:  source,
		store:   store,
		cache:   resultCache,
		metrics: m,
		timeout: 2 * time.Minute,
	}
}

// Start schedules reloads using a standard five-field cron expression.
// Reloads stop when ctx is cancelled or Stop is called.
func (w *DatasetReloadWorker) Start(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() { _ = w.Reload(ctx) }); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", schedule, err)
	}

	w.cron = c
	c.Start()
	log.Info().Str("schedule", schedule).Str("source", w.source.Source()).Msg("Starting dataset reload worker")

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running reload to finish.
func (w *DatasetReloadWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
}

// Reload loads a dataset and swaps it in. On failure the current dataset
// stays in place.
func (w *DatasetReloadWorker) Reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	ds, err := w.source.Load(ctx)
	if err != nil {
		w.metrics.RecordDatasetReload(false)
		log.Error().Err(err).Str("source", w.source.Source()).Msg("Dataset reload failed")
		return err
	}

	w.store.Swap(ds)
	if err := w.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to invalidate cached analysis results")
	}
	w.metrics.RecordDatasetReload(true)

	log.Info().
		Int("creators", len(ds.Creators)).
		Int("products", len(ds.Products)).
		Int("sales", len(ds.Sales)).
		Dur("duration", time.Since(start)).
		Msg("Dataset reloaded")
	return nil
}
