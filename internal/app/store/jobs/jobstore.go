package jobstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the jobs collection name.
const Collection = "jobs"

// MaxAttempts is how many times a job is tried before it is parked as failed.
const MaxAttempts = 5

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection), now: func() time.Time { return time.Now().UTC() }}
}

// Enqueue ensures a pending job exists for (kind, key). If one is already
// pending it is reused. A running job gets a fresh pending sibling so the
// latest state is picked up after the current run.
func (s *Store) Enqueue(ctx context.Context, kind, key string) error {
	now := s.now()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"kind": kind, "key": key, "status": models.JobPending},
		bson.M{
			"$setOnInsert": bson.M{
				"_id":       primitive.NewObjectID(),
				"kind":      kind,
				"key":       key,
				"status":    models.JobPending,
				"attempts":  0,
				"createdAt": now,
			},
			"$set": bson.M{"updatedAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil && wafflemongo.IsDup(err) {
		// A concurrent enqueue won the race; its pending job serves both.
		return nil
	}
	return err
}

// Claim moves the oldest runnable job of one of kinds to running and
// leases it until now+lease. Pending jobs and running jobs whose lease
// expired are runnable. It returns nil, nil when nothing is runnable.
func (s *Store) Claim(ctx context.Context, kinds []string, lease time.Duration) (*models.Job, error) {
	now := s.now()
	filter := bson.M{
		"kind": bson.M{"$in": kinds},
		"$or": bson.A{
			bson.M{"status": models.JobPending},
			bson.M{"status": models.JobRunning, "leaseUntil": bson.M{"$lt": now}},
		},
	}
	update := bson.M{
		"$set": bson.M{"status": models.JobRunning, "leaseUntil": now.Add(lease), "updatedAt": now},
		"$inc": bson.M{"attempts": 1},
	}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "updatedAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetReturnDocument(options.After)

	var j models.Job
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Complete marks a claimed job done.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID) error {
	now := s.now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"status": models.JobDone, "updatedAt": now},
		"$unset": bson.M{"leaseUntil": "", "lastError": ""},
	})
	return err
}

// Fail records cause on a claimed job. It goes back to pending for retry
// until MaxAttempts is reached, then is parked as failed.
func (s *Store) Fail(ctx context.Context, j *models.Job, cause error) error {
	now := s.now()
	status := models.JobPending
	if j.Attempts >= MaxAttempts {
		status = models.JobFailed
	}
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": j.ID}, bson.M{
		"$set":   bson.M{"status": status, "lastError": msg, "updatedAt": now},
		"$unset": bson.M{"leaseUntil": ""},
	})
	if err != nil && wafflemongo.IsDup(err) {
		// A newer pending job for the same key supersedes this one.
		_, err = s.c.UpdateOne(ctx, bson.M{"_id": j.ID}, bson.M{
			"$set":   bson.M{"status": models.JobDone, "lastError": msg, "updatedAt": now},
			"$unset": bson.M{"leaseUntil": ""},
		})
	}
	return err
}

// Release hands a claimed job back to pending without running it. The
// claim's attempt is not counted.
func (s *Store) Release(ctx context.Context, j *models.Job) error {
	now := s.now()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": j.ID}, bson.M{
		"$set":   bson.M{"status": models.JobPending, "updatedAt": now},
		"$inc":   bson.M{"attempts": -1},
		"$unset": bson.M{"leaseUntil": ""},
	})
	if err != nil && wafflemongo.IsDup(err) {
		_, err = s.c.UpdateOne(ctx, bson.M{"_id": j.ID}, bson.M{
			"$set":   bson.M{"status": models.JobDone, "updatedAt": now},
			"$unset": bson.M{"leaseUntil": ""},
		})
	}
	return err
}

// GetByKey returns the most recent job for (kind, key).
func (s *Store) GetByKey(ctx context.Context, kind, key string) (*models.Job, error) {
	var j models.Job
	err := s.c.FindOne(ctx, bson.M{"kind": kind, "key": key},
		options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}),
	).Decode(&j)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// PurgeFinished deletes done and failed jobs last touched before cutoff.
func (s *Store) PurgeFinished(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"status":    bson.M{"$in": bson.A{models.JobDone, models.JobFailed}},
		"updatedAt": bson.M{"$lt": cutoff.UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
