package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/pkg/jobs"
)

const jobTypeDeleteObject = "delete_object"

type objectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// orphanScheduler queues removal of an uploaded object whose database write failed.
type orphanScheduler interface {
	Schedule(key string)
}

// UploadCleaner deletes orphaned uploads in the background with retries.
type UploadCleaner struct {
	queue   *jobs.Queue
	store   objectDeleter
	metrics *MetricsService
	logger  *zap.Logger
}

// UploadCleanerConfig tunes the cleanup worker pool.
type UploadCleanerConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NewUploadCleaner builds a cleaner; call Start before scheduling.
func NewUploadCleaner(store objectDeleter, cfg UploadCleanerConfig, metrics *MetricsService, logger *zap.Logger) *UploadCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &UploadCleaner{store: store, metrics: metrics, logger: logger}
	c.queue = jobs.NewQueue("upload-cleanup", c.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return c
}

// Start launches the cleanup workers.
func (c *UploadCleaner) Start(ctx context.Context) {
	c.queue.Start(ctx)
}

// Stop halts the workers.
func (c *UploadCleaner) Stop() {
	c.queue.Stop()
}

// Schedule enqueues deletion of key.
func (c *UploadCleaner) Schedule(key string) {
	if key == "" {
		return
	}
	jobID, err := c.queue.Enqueue(jobTypeDeleteObject, key)
	if err != nil {
		c.logger.Error("failed to schedule orphan cleanup", zap.String("key", key), zap.Error(err))
		return
	}
	c.logger.Info("orphan cleanup scheduled", zap.String("key", key), zap.String("job_id", jobID))
}

// Stats exposes queue counters.
func (c *UploadCleaner) Stats() jobs.Stats {
	return c.queue.Stats()
}

func (c *UploadCleaner) handle(ctx context.Context, job jobs.Job) error {
	err := c.store.Delete(ctx, job.Payload)
	c.metrics.RecordCleanup(err)
	return err
}
