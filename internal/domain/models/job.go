// internal/domain/models/job.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job statuses.
const (
	JobPending = "pending"
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// Job kinds.
const (
	JobAvatarFanout = "avatar_fanout"
)

// Job is a queued unit of background work. At most one pending or running
// job exists per (Kind, Key); enqueueing again reuses it.
type Job struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Kind       string             `bson:"kind"`
	Key        string             `bson:"key"`
	Status     string             `bson:"status"`
	Attempts   int                `bson:"attempts"`
	LastError  string             `bson:"lastError,omitempty"`
	LeaseUntil *time.Time         `bson:"leaseUntil,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}
