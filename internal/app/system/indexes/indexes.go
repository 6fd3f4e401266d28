// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem shows up in one startup failure.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	sets := []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"users", ensureUsers},
		{"campgrounds", ensureCampgrounds},
		{"comments", ensureComments},
		{"ratings", ensureRatings},
		{"notifications", ensureNotifications},
		{"jobs", ensureJobs},
		{"audit_events", ensureAuditEvents},
	}
	for _, s := range sets {
		if err := s.fn(ctx, db); err != nil {
			problems = append(problems, s.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name    string `bson:"name"`
	Key     bson.D `bson:"key"`
	Unique  *bool  `bson:"unique,omitempty"`
	Partial bson.D `bson:"partialFilterExpression,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

// partialSig normalizes a partial filter for comparison. Only flat
// equality filters are used here, so a key signature is enough.
func partialSig(v interface{}) string {
	switch f := v.(type) {
	case nil:
		return ""
	case bson.D:
		return keySig(f)
	case bson.M:
		d := make(bson.D, 0, len(f))
		for k, val := range f {
			d = append(d, bson.E{Key: k, Value: val})
		}
		return keySig(d)
	default:
		return fmt.Sprintf("%v", f)
	}
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB return IndexOptionsConflict when an index with the same
// keys already exists under a different name or options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict") ||
		strings.Contains(err.Error(), "IndexKeySpecsConflict")
}

// duplicateHint points operators at the aggregation that finds the
// offending documents when a unique index cannot be built.
func duplicateHint(coll, field string) string {
	return fmt.Sprintf(" (duplicates exist on %s.%s; find them with "+
		`db.%s.aggregate([{ $group: { _id: "$%s", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }]))`,
		coll, field, coll, field)
}

func listIndexes(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	for _, m := range models {
		if err := ensureIndex(ctx, coll, m); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func ensureIndex(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel) error {
	var (
		name    string
		unique  *bool
		partial string
	)
	if m.Options != nil {
		if m.Options.Name != nil {
			name = *m.Options.Name
		}
		unique = m.Options.Unique
		partial = partialSig(m.Options.PartialFilterExpression)
	}
	sig := keySig(m.Keys.(bson.D))
	isUnique := unique != nil && *unique

	start := time.Now()
	log := zap.L().With(
		zap.String("collection", coll.Name()),
		zap.String("name", name),
		zap.String("keys", sig),
		zap.Bool("unique", isUnique))
	log.Info("ensuring index")

	create := func() error {
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && isUnique {
				field := m.Keys.(bson.D)[0].Key
				return fmt.Errorf("%s(%s): cannot create unique index%s", coll.Name(), name, duplicateHint(coll.Name(), field))
			}
			return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
		}
		return nil
	}

	ex, found := listIndexes(ctx, coll)[sig]
	if found {
		sameOpts := sameBoolPtr(unique, ex.Unique) && partial == partialSig(ex.Partial)
		if sameOpts && (name == "" || ex.Name == name) {
			log.Info("reusing existing index", zap.String("took", time.Since(start).String()))
			return nil
		}
		// Name or options drifted: drop and recreate under the desired definition.
		if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
			log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
			return fmt.Errorf("%s(%s): drop failed: %w", coll.Name(), name, err)
		}
		if err := create(); err != nil {
			log.Warn("index recreate failed", zap.Error(err))
			return err
		}
		log.Info("index dropped and recreated",
			zap.String("from", ex.Name),
			zap.String("took", time.Since(start).String()))
		return nil
	}

	err := create()
	if err != nil && isOptionsConflictErr(err) {
		// Raced with another instance or a same-named index on other keys.
		if name != "" {
			if _, dropErr := coll.Indexes().DropOne(ctx, name); dropErr != nil {
				log.Warn("failed to drop conflicting index", zap.Error(dropErr))
			}
			err = create()
		}
	}
	if err != nil {
		log.Warn("index ensure failed", zap.String("took", time.Since(start).String()), zap.Error(err))
		return err
	}
	log.Info("index ensured", zap.String("took", time.Since(start).String()))
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Usernames and emails identify a login.
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_username"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Reset-token lookups; sparse since most users never hold one.
		{
			Keys:    bson.D{{Key: "resetPasswordToken", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_users_resettoken"),
		},
		{
			Keys:    bson.D{{Key: "followers", Value: 1}},
			Options: options.Index().SetName("idx_users_followers"),
		},
	})
}

func ensureCampgrounds(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("campgrounds")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Newest-first listing with a stable tiebreak.
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_campgrounds_updated__id"),
		},
		// Per-author stats and listings.
		{
			Keys:    bson.D{{Key: "author.id", Value: 1}},
			Options: options.Index().SetName("idx_campgrounds_author"),
		},
		// Summaries are sorted by name.
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_campgrounds_name"),
		},
	})
}

func ensureComments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("comments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author.id", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("idx_comments_author_created"),
		},
		// Avatar fan-out rewrites likes by liker id.
		{
			Keys:    bson.D{{Key: "likes.id", Value: 1}},
			Options: options.Index().SetName("idx_comments_likes"),
		},
	})
}

func ensureRatings(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("ratings")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Not unique: one user may rate the same campground more than once.
		{
			Keys: bson.D{
				{Key: "campgroundId", Value: 1},
				{Key: "author.id", Value: 1},
				{Key: "updatedAt", Value: -1},
			},
			Options: options.Index().SetName("idx_ratings_campground_author_updated"),
		},
		{
			Keys:    bson.D{{Key: "author.id", Value: 1}},
			Options: options.Index().SetName("idx_ratings_author"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("notifications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Unfollow finds the follow notifications for a (follower, target) pair.
		{
			Keys:    bson.D{{Key: "follower.id", Value: 1}, {Key: "follower.followingUserId", Value: 1}},
			Options: options.Index().SetName("idx_notifications_follower_following"),
		},
	})
}

func ensureJobs(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("jobs")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// At most one pending job per (kind, key); enqueue relies on this.
		{
			Keys: bson.D{{Key: "kind", Value: 1}, {Key: "key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "status", Value: "pending"}}).
				SetName("uniq_jobs_pending_kind_key"),
		},
		// Claim and purge scan by status and age.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}},
			Options: options.Index().SetName("idx_jobs_status_updated"),
		},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("audit_events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
			Options: options.Index().SetName("idx_audit_category_type_timestamp"),
		},
	})
}
