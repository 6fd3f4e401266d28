package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/system/workers"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memStore struct {
	pending   []*models.Job
	completed []primitive.ObjectID
	failed    []error
	released  []primitive.ObjectID
	ctxErrs   []error

	// requeue returns failed jobs to pending, the way the Mongo store
	// does below MaxAttempts.
	requeue bool
}

func (m *memStore) Claim(_ context.Context, kinds []string, _ time.Duration) (*models.Job, error) {
	if len(m.pending) == 0 {
		return nil, nil
	}
	j := m.pending[0]
	m.pending = m.pending[1:]
	j.Attempts++
	return j, nil
}

func (m *memStore) Complete(ctx context.Context, id primitive.ObjectID) error {
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	m.completed = append(m.completed, id)
	return nil
}

func (m *memStore) Fail(ctx context.Context, j *models.Job, cause error) error {
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	m.failed = append(m.failed, cause)
	if m.requeue {
		m.pending = append(m.pending, j)
	}
	return nil
}

func (m *memStore) Release(_ context.Context, j *models.Job) error {
	j.Attempts--
	m.released = append(m.released, j.ID)
	m.pending = append(m.pending, j)
	return nil
}

func job(kind, key string) *models.Job {
	return &models.Job{ID: primitive.NewObjectID(), Kind: kind, Key: key, Status: models.JobPending}
}

func TestQueue_Drain(t *testing.T) {
	store := &memStore{pending: []*models.Job{
		job(models.JobAvatarFanout, "a"),
		job(models.JobAvatarFanout, "b"),
		job("unknown", "c"),
	}}
	q := workers.NewQueue(store, zap.NewNop(), time.Hour, time.Second)

	var keys []string
	q.Handle(models.JobAvatarFanout, func(_ context.Context, key string) error {
		keys = append(keys, key)
		return nil
	})

	if n := q.Drain(); n != 3 {
		t.Errorf("Drain processed %d, want 3", n)
	}
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("handled keys = %v", keys)
	}
	if len(store.completed) != 2 {
		t.Errorf("completed = %d, want 2", len(store.completed))
	}
	if len(store.failed) != 1 {
		t.Errorf("failed = %d, want 1 (unknown kind)", len(store.failed))
	}
}

func TestQueue_HandlerErrorAndPanic(t *testing.T) {
	store := &memStore{pending: []*models.Job{job("k", "err"), job("k", "panic")}}
	q := workers.NewQueue(store, zap.NewNop(), time.Hour, time.Second)
	q.Handle("k", func(_ context.Context, key string) error {
		if key == "panic" {
			panic("boom")
		}
		return errors.New("transient")
	})

	q.Drain()

	if len(store.failed) != 2 {
		t.Fatalf("failed = %d, want 2", len(store.failed))
	}
	if store.failed[0].Error() != "transient" {
		t.Errorf("first failure = %v", store.failed[0])
	}
	if len(store.completed) != 0 {
		t.Errorf("nothing should complete, got %d", len(store.completed))
	}
}

func TestQueue_DrainStopsOnRequeuedJob(t *testing.T) {
	bad := job("k", "bad")
	store := &memStore{requeue: true, pending: []*models.Job{bad, job("k", "good")}}
	q := workers.NewQueue(store, zap.NewNop(), time.Hour, time.Second)

	calls := map[string]int{}
	q.Handle("k", func(_ context.Context, key string) error {
		calls[key]++
		if key == "bad" {
			return errors.New("transient")
		}
		return nil
	})

	if n := q.Drain(); n != 2 {
		t.Errorf("Drain processed %d, want 2", n)
	}
	if calls["bad"] != 1 || calls["good"] != 1 {
		t.Errorf("calls = %v, want each job once", calls)
	}
	if len(store.released) != 1 || store.released[0] != bad.ID {
		t.Errorf("released = %v, want %s", store.released, bad.ID.Hex())
	}
	if bad.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", bad.Attempts)
	}
	if len(store.pending) != 1 {
		t.Errorf("pending = %d, want the failed job waiting for the next pass", len(store.pending))
	}
}

func TestQueue_BookkeepingOutlivesLease(t *testing.T) {
	store := &memStore{pending: []*models.Job{job("k", "slow"), job("k", "slow-fail")}}
	q := workers.NewQueue(store, zap.NewNop(), time.Hour, 20*time.Millisecond)
	q.Handle("k", func(ctx context.Context, key string) error {
		<-ctx.Done()
		if key == "slow-fail" {
			return ctx.Err()
		}
		return nil
	})

	q.Drain()

	if len(store.completed) != 1 || len(store.failed) != 1 {
		t.Fatalf("completed = %d, failed = %d; want 1 each", len(store.completed), len(store.failed))
	}
	for i, err := range store.ctxErrs {
		if err != nil {
			t.Errorf("bookkeeping call %d ran on a done context: %v", i, err)
		}
	}
}

func TestQueue_StartStop(t *testing.T) {
	store := &memStore{pending: []*models.Job{job("k", "x")}}
	q := workers.NewQueue(store, zap.NewNop(), 10*time.Millisecond, time.Second)
	done := make(chan string, 1)
	q.Handle("k", func(_ context.Context, key string) error {
		done <- key
		return nil
	})

	q.Start()
	defer q.Stop()

	select {
	case key := <-done:
		if key != "x" {
			t.Errorf("key = %q", key)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job was not run")
	}
}
