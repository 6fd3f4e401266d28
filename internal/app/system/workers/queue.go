// internal/app/system/workers/queue.go
package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/system/timeouts"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// JobStore is the queue the worker drains.
type JobStore interface {
	Claim(ctx context.Context, kinds []string, lease time.Duration) (*models.Job, error)
	Complete(ctx context.Context, id primitive.ObjectID) error
	Fail(ctx context.Context, j *models.Job, cause error) error
	Release(ctx context.Context, j *models.Job) error
}

// Handler runs one job. key is the job's Key.
type Handler func(ctx context.Context, key string) error

// Queue is a background worker that claims queued jobs and runs the
// handler registered for their kind.
type Queue struct {
	store    JobStore
	log      *zap.Logger
	interval time.Duration
	lease    time.Duration
	handlers map[string]Handler
	kinds    []string
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewQueue creates a worker polling store every interval. A claimed job
// may run for at most lease before another worker may take it over.
func NewQueue(store JobStore, logger *zap.Logger, interval, lease time.Duration) *Queue {
	return &Queue{
		store:    store,
		log:      logger,
		interval: interval,
		lease:    lease,
		handlers: make(map[string]Handler),
		stopCh:   make(chan struct{}),
	}
}

// Handle registers h for jobs of kind. Call before Start.
func (q *Queue) Handle(kind string, h Handler) {
	if _, ok := q.handlers[kind]; !ok {
		q.kinds = append(q.kinds, kind)
	}
	q.handlers[kind] = h
}

// Start begins the background polling loop.
func (q *Queue) Start() {
	q.wg.Add(1)
	go q.run()
	q.log.Info("job queue worker started",
		zap.Duration("interval", q.interval),
		zap.Strings("kinds", q.kinds))
}

// Stop signals the worker to stop and waits for it to finish.
func (q *Queue) Stop() {
	close(q.stopCh)
	q.wg.Wait()
	q.log.Info("job queue worker stopped")
}

func (q *Queue) run() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	for {
		select {
		case <-q.stopCh:
			return
		case <-ticker.C:
			q.Drain()
		}
	}
}

// Drain runs claimed jobs until none are runnable or the worker stops.
// A job that comes back in the same pass (a failure returned to pending)
// ends the pass and waits for the next tick. It returns how many jobs were
// processed.
func (q *Queue) Drain() int {
	seen := make(map[primitive.ObjectID]struct{})
	n := 0
	for {
		select {
		case <-q.stopCh:
			return n
		default:
		}
		job, err := q.claim()
		if err != nil {
			q.log.Error("failed to claim job", zap.Error(err))
			return n
		}
		if job == nil {
			return n
		}
		if _, again := seen[job.ID]; again {
			q.release(job)
			return n
		}
		seen[job.ID] = struct{}{}
		q.run1(job)
		n++
	}
}

// RunOnce claims and runs a single job. It reports whether a job was found.
func (q *Queue) RunOnce() (bool, error) {
	job, err := q.claim()
	if err != nil || job == nil {
		return false, err
	}
	q.run1(job)
	return true, nil
}

func (q *Queue) claim() (*models.Job, error) {
	if len(q.kinds) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()
	return q.store.Claim(ctx, q.kinds, q.lease)
}

// run1 runs job under its lease. Completion or failure is recorded on a
// fresh deadline so a handler that used up the lease still gets booked.
func (q *Queue) run1(job *models.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.lease)
	runErr := q.invoke(ctx, job)
	cancel()

	if runErr != nil {
		q.log.Warn("job failed",
			zap.String("kind", job.Kind),
			zap.String("key", job.Key),
			zap.Int("attempts", job.Attempts),
			zap.Error(runErr))
		q.fail(job, runErr)
		return
	}

	bctx, bcancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer bcancel()
	if err := q.store.Complete(bctx, job.ID); err != nil {
		q.log.Error("failed to complete job", zap.String("job_id", job.ID.Hex()), zap.Error(err))
	}
	q.log.Debug("job done", zap.String("kind", job.Kind), zap.String("key", job.Key))
}

func (q *Queue) release(job *models.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()
	if err := q.store.Release(ctx, job); err != nil {
		q.log.Error("failed to release job", zap.String("job_id", job.ID.Hex()), zap.Error(err))
	}
}

func (q *Queue) fail(job *models.Job, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()
	if err := q.store.Fail(ctx, job, cause); err != nil {
		q.log.Error("failed to record job failure", zap.String("job_id", job.ID.Hex()), zap.Error(err))
	}
}

func (q *Queue) invoke(ctx context.Context, job *models.Job) (err error) {
	h, ok := q.handlers[job.Kind]
	if !ok {
		return fmt.Errorf("no handler for job kind %q", job.Kind)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return h(ctx, job.Key)
}
