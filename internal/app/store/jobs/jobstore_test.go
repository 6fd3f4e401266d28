package jobstore_test

import (
	"errors"
	"testing"
	"time"

	jobstore "github.com/dalemusser/yelpcamp/internal/app/store/jobs"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

var kinds = []string{models.JobAvatarFanout}

func TestStore_EnqueueCoalesces(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
			t.Fatalf("Enqueue #%d: %v", i, err)
		}
	}

	n, err := db.Collection(jobstore.Collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("jobs = %d, want 1", n)
	}
}

func TestStore_ClaimComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	j, err := store.Claim(ctx, kinds, time.Minute)
	if err != nil || j == nil {
		t.Fatalf("Claim = %v, %v", j, err)
	}
	if j.Status != models.JobRunning || j.Attempts != 1 || j.Key != "user-1" {
		t.Errorf("claimed %+v", j)
	}

	// Leased: nothing else is runnable.
	if again, err := store.Claim(ctx, kinds, time.Minute); err != nil || again != nil {
		t.Errorf("second Claim = %v, %v; want nil", again, err)
	}

	// A new enqueue while running creates a pending sibling.
	if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
		t.Fatalf("Enqueue while running: %v", err)
	}

	if err := store.Complete(ctx, j.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	next, err := store.Claim(ctx, kinds, time.Minute)
	if err != nil || next == nil {
		t.Fatalf("Claim sibling = %v, %v", next, err)
	}
	if next.ID == j.ID {
		t.Error("completed job was claimed again")
	}
}

func TestStore_ClaimExpiredLease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	// A negative lease is already expired, as if the worker died.
	first, err := store.Claim(ctx, kinds, -time.Second)
	if err != nil || first == nil {
		t.Fatalf("Claim = %v, %v", first, err)
	}
	second, err := store.Claim(ctx, kinds, time.Minute)
	if err != nil || second == nil {
		t.Fatalf("reclaim = %v, %v", second, err)
	}
	if second.ID != first.ID || second.Attempts != 2 {
		t.Errorf("reclaimed %+v", second)
	}
}

func TestStore_ClaimIgnoresOtherKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Enqueue(ctx, "something_else", "k"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if j, err := store.Claim(ctx, kinds, time.Minute); err != nil || j != nil {
		t.Errorf("Claim = %v, %v; want nil", j, err)
	}
}

func TestStore_FailRetriesThenParks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	cause := errors.New("boom")
	for i := 1; i <= jobstore.MaxAttempts; i++ {
		j, err := store.Claim(ctx, kinds, time.Minute)
		if err != nil || j == nil {
			t.Fatalf("Claim #%d = %v, %v", i, j, err)
		}
		if err := store.Fail(ctx, j, cause); err != nil {
			t.Fatalf("Fail #%d: %v", i, err)
		}
	}

	j, err := store.GetByKey(ctx, models.JobAvatarFanout, "user-1")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if j.Status != models.JobFailed || j.LastError != "boom" {
		t.Errorf("job = %+v, want failed with lastError", j)
	}
	if next, err := store.Claim(ctx, kinds, time.Minute); err != nil || next != nil {
		t.Errorf("failed job claimed again: %v, %v", next, err)
	}
}

func TestStore_FailSupersededByPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	j, err := store.Claim(ctx, kinds, time.Minute)
	if err != nil || j == nil {
		t.Fatalf("Claim = %v, %v", j, err)
	}
	if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
		t.Fatalf("Enqueue sibling: %v", err)
	}

	// Returning to pending would collide with the sibling.
	if err := store.Fail(ctx, j, errors.New("boom")); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	pending, err := db.Collection(jobstore.Collection).CountDocuments(ctx, bson.M{"status": models.JobPending})
	if err != nil || pending != 1 {
		t.Errorf("pending = %d, %v; want 1", pending, err)
	}
	done, err := db.Collection(jobstore.Collection).CountDocuments(ctx, bson.M{"_id": j.ID, "status": models.JobDone})
	if err != nil || done != 1 {
		t.Errorf("superseded job not done: %d, %v", done, err)
	}
}

func TestStore_ReleaseKeepsAttempts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.EnsureIndexes(t, db)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Enqueue(ctx, models.JobAvatarFanout, "user-1"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	j, err := store.Claim(ctx, kinds, time.Minute)
	if err != nil || j == nil {
		t.Fatalf("Claim = %v, %v", j, err)
	}
	if err := store.Release(ctx, j); err != nil {
		t.Fatalf("Release: %v", err)
	}

	again, err := store.Claim(ctx, kinds, time.Minute)
	if err != nil || again == nil {
		t.Fatalf("Claim after Release = %v, %v", again, err)
	}
	if again.ID != j.ID || again.Attempts != 1 {
		t.Errorf("reclaimed %+v, want same job on attempt 1", again)
	}
}

func TestStore_PurgeFinished(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := jobstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Enqueue(ctx, models.JobAvatarFanout, "done"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	j, _ := store.Claim(ctx, kinds, time.Minute)
	if err := store.Complete(ctx, j.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := store.Enqueue(ctx, models.JobAvatarFanout, "pending"); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	n, err := store.PurgeFinished(ctx, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("PurgeFinished: %v", err)
	}
	if n != 1 {
		t.Errorf("purged = %d, want 1", n)
	}
	if _, err := store.GetByKey(ctx, models.JobAvatarFanout, "pending"); err != nil {
		t.Errorf("pending job purged: %v", err)
	}
}
