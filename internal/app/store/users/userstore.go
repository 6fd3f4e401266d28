package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/yelpcamp/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the users collection name.
const Collection = "users"

var (
	// ErrDuplicateUsername is returned when the username is taken.
	ErrDuplicateUsername = errors.New("a user with this username already exists")
	// ErrDuplicateEmail is returned when the email is taken.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByUsername looks up a user by exact username. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

// GetByEmail looks up a user by exact email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByResetToken finds the user holding a password reset token.
func (s *Store) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"resetPasswordToken": token})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UsernameExists reports whether any user has username.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, bson.M{"username": username})
}

// EmailExists reports whether any user has email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": email})
}

func (s *Store) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new user. Empty follower and notification lists are
// stored as arrays, never null.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	if u.Followers == nil {
		u.Followers = []primitive.ObjectID{}
	}
	if u.Notifications == nil {
		u.Notifications = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			if strings.Contains(err.Error(), "username") {
				return models.User{}, ErrDuplicateUsername
			}
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ByIDs loads every user whose id is in ids. Order is unspecified.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// Find runs filter with opts.
func (s *Store) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	return s.find(ctx, filter, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.User, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// SetAvatar replaces the user's avatar URL.
func (s *Store) SetAvatar(ctx context.Context, id primitive.ObjectID, avatar string) (int64, error) {
	return s.set(ctx, id, bson.M{"avatar": avatar})
}

// SetPassword replaces the user's password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) (int64, error) {
	return s.set(ctx, id, bson.M{"password": hash})
}

// Settings is the editable profile of a user.
type Settings struct {
	FirstName                string
	LastName                 string
	Email                    string
	HideStatsDashboard       bool
	EnableNotifications      models.NotificationPrefs
	EnableNotificationEmails EmailSettings
}

// EmailSettings holds the email preferences a user may change. The
// system flag is not user-editable.
type EmailSettings struct {
	NewCampground bool
	NewComment    bool
	NewFollower   bool
}

// UpdateSettings writes the profile fields and each preference flag
// individually. It returns the matched count.
func (s *Store) UpdateSettings(ctx context.Context, id primitive.ObjectID, st Settings) (int64, error) {
	n, err := s.set(ctx, id, bson.M{
		"firstName":                              st.FirstName,
		"lastName":                               st.LastName,
		"email":                                  st.Email,
		"hideStatsDashboard":                     st.HideStatsDashboard,
		"enableNotifications.newCampground":      st.EnableNotifications.NewCampground,
		"enableNotifications.newComment":         st.EnableNotifications.NewComment,
		"enableNotifications.newFollower":        st.EnableNotifications.NewFollower,
		"enableNotifications.newCommentLike":     st.EnableNotifications.NewCommentLike,
		"enableNotificationEmails.newCampground": st.EnableNotificationEmails.NewCampground,
		"enableNotificationEmails.newComment":    st.EnableNotificationEmails.NewComment,
		"enableNotificationEmails.newFollower":   st.EnableNotificationEmails.NewFollower,
	})
	if err != nil && wafflemongo.IsDup(err) {
		return 0, ErrDuplicateEmail
	}
	return n, err
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (int64, error) {
	fields["updatedAt"] = time.Now().UTC()
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
