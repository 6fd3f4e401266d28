package userstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetResetToken stores a password reset token and its expiry.
func (s *Store) SetResetToken(ctx context.Context, id primitive.ObjectID, token string, expires time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": expires.UTC(),
		"updatedAt":            time.Now().UTC(),
	}})
	return err
}

// ClearResetToken removes any reset token from the user.
func (s *Store) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
	return err
}

// ConsumeResetToken sets a new password hash on the user holding token,
// provided the token has not expired at now, and removes the token in the
// same update. It returns the matched count.
func (s *Store) ConsumeResetToken(ctx context.Context, token, hash string, now time.Time) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"resetPasswordToken":   token,
			"resetPasswordExpires": bson.M{"$gt": now.UTC()},
		},
		bson.M{
			"$set":   bson.M{"password": hash, "updatedAt": time.Now().UTC()},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// ClearExpiredResetTokens removes reset tokens whose expiry is before now.
func (s *Store) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"resetPasswordExpires": bson.M{"$lte": now.UTC()}},
		bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func findProjection(p bson.M) *options.FindOptions {
	return options.Find().SetProjection(p)
}
