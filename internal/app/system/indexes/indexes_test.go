package indexes_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/system/indexes"
	"github.com/dalemusser/yelpcamp/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func indexNames(t *testing.T, ctx context.Context, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes on %s failed: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		collection string
		expected   []string
	}{
		{"users", []string{"uniq_users_username", "uniq_users_email", "idx_users_resettoken", "idx_users_followers"}},
		{"campgrounds", []string{"idx_campgrounds_updated__id", "idx_campgrounds_author", "idx_campgrounds_name"}},
		{"comments", []string{"idx_comments_author_created", "idx_comments_likes"}},
		{"ratings", []string{"idx_ratings_campground_author_updated", "idx_ratings_author"}},
		{"notifications", []string{"idx_notifications_follower_following"}},
		{"jobs", []string{"uniq_jobs_pending_kind_key", "idx_jobs_status_updated"}},
		{"audit_events", []string{"idx_audit_timestamp", "idx_audit_user_timestamp", "idx_audit_category_type_timestamp"}},
	}

	for _, tt := range tests {
		t.Run(tt.collection, func(t *testing.T) {
			names := indexNames(t, ctx, db, tt.collection)
			for _, name := range tt.expected {
				if !names[name] {
					t.Errorf("expected index %q to exist on %s collection", name, tt.collection)
				}
			}
		})
	}
}

func TestEnsureAll_RenamesDriftedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys and options as the desired index, different name.
	_, err := db.Collection("campgrounds").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_1_legacy"),
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, ctx, db, "campgrounds")
	if names["name_1_legacy"] {
		t.Error("legacy index should have been dropped")
	}
	if !names["idx_campgrounds_name"] {
		t.Error("expected idx_campgrounds_name after rename")
	}
}

func TestEnsureAll_UniqueUsernameFailsOnDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	_, err := db.Collection("users").InsertMany(ctx, []interface{}{
		bson.M{"username": "dup", "email": "a@example.com", "createdAt": now},
		bson.M{"username": "dup", "email": "b@example.com", "createdAt": now},
	})
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err == nil {
		t.Fatal("expected EnsureAll to fail with duplicate usernames")
	}
}

func TestEnsureAll_PendingJobsUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	jobs := db.Collection("jobs")
	now := time.Now()
	if _, err := jobs.InsertOne(ctx, bson.M{"kind": "avatar_fanout", "key": "u1", "status": "pending", "updatedAt": now}); err != nil {
		t.Fatalf("insert first pending: %v", err)
	}
	if _, err := jobs.InsertOne(ctx, bson.M{"kind": "avatar_fanout", "key": "u1", "status": "pending", "updatedAt": now}); !mongo.IsDuplicateKeyError(err) {
		t.Fatalf("second pending insert: got %v, want duplicate key error", err)
	}
	// Finished jobs for the same key are not constrained.
	if _, err := jobs.InsertOne(ctx, bson.M{"kind": "avatar_fanout", "key": "u1", "status": "done", "updatedAt": now}); err != nil {
		t.Fatalf("insert done job: %v", err)
	}
	if _, err := jobs.InsertOne(ctx, bson.M{"kind": "avatar_fanout", "key": "u1", "status": "done", "updatedAt": now}); err != nil {
		t.Fatalf("insert second done job: %v", err)
	}
}
