package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddFollower appends follower to target's followers. Repeated calls
// append again. It returns the matched count.
func (s *Store) AddFollower(ctx context.Context, target, follower primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": target},
		bson.M{"$push": bson.M{"followers": follower}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// RemoveFollower pulls every occurrence of follower from target's
// followers, together with the given notification ids.
func (s *Store) RemoveFollower(ctx context.Context, target, follower primitive.ObjectID, notificationIDs []primitive.ObjectID) (int64, error) {
	pull := bson.M{"followers": bson.A{follower}}
	if len(notificationIDs) > 0 {
		pull["notifications"] = notificationIDs
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": target}, bson.M{"$pullAll": pull})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// AddNotification appends a notification id to the user's list.
func (s *Store) AddNotification(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"notifications": notificationID}},
	)
	return err
}

// RemoveNotifications pulls ids from the user's notification list.
func (s *Store) RemoveNotifications(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pullAll": bson.M{"notifications": ids}},
	)
	return err
}

// NotificationRefs is a user id with its stored notification id list.
type NotificationRefs struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Notifications []primitive.ObjectID `bson:"notifications"`
}

// EachWithNotifications calls fn for every user holding at least one
// notification id. Iteration stops at the first error.
func (s *Store) EachWithNotifications(ctx context.Context, fn func(NotificationRefs) error) error {
	cur, err := s.c.Find(ctx,
		bson.M{"notifications.0": bson.M{"$exists": true}},
		findProjection(bson.M{"_id": 1, "notifications": 1}),
	)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var r NotificationRefs
		if err := cur.Decode(&r); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return cur.Err()
}
