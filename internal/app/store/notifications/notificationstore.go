package notificationstore

import (
	"context"
	"time"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the notifications collection name.
const Collection = "notifications"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts n with fresh id and timestamps.
func (s *Store) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	n.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// NewFollower builds the notification delivered when follower starts
// following target.
func NewFollower(follower models.User, target primitive.ObjectID) models.Notification {
	return models.Notification{
		Username:         follower.Username,
		NotificationType: models.NotificationNewFollower,
		Follower: &models.FollowerRef{
			ID:              follower.ID,
			FollowerAvatar:  follower.Avatar,
			FollowingUserID: target,
		},
	}
}

// GetByID loads a notification by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	var n models.Notification
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ByIDs loads the notifications whose ids are in ids, newest first.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Notification, error) {
	if len(ids) == 0 {
		return []models.Notification{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FollowIDs returns the ids of every follow notification recording that
// follower follows following, duplicates included.
func (s *Store) FollowIDs(ctx context.Context, follower, following primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.ids(ctx, bson.M{"follower.id": follower, "follower.followingUserId": following})
}

// Existing returns the subset of ids that still have a document.
func (s *Store) Existing(ctx context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return []primitive.ObjectID{}, nil
	}
	return s.ids(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) ids(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.ID)
	}
	return out, cur.Err()
}

// DeleteByIDs removes the notifications with the given ids.
func (s *Store) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetRead sets the read flag on every listed notification and returns the
// matched count. Already-read documents still count as matched.
func (s *Store) SetRead(ctx context.Context, ids []primitive.ObjectID, isRead bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"isRead": isRead, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetFollowerAvatar rewrites the follower avatar snapshot on every
// notification raised by userID.
func (s *Store) SetFollowerAvatar(ctx context.Context, userID primitive.ObjectID, avatar string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"follower.id": userID},
		bson.M{"$set": bson.M{"follower.followerAvatar": avatar}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
