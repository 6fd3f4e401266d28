package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FixturePassword is the plaintext password of every fixture user.
const FixturePassword = "campfire-stories"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db   *mongo.Database
	t    *testing.T
	hash string
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) passwordHash() string {
	f.t.Helper()
	if f.hash == "" {
		h, err := auth.HashPassword(FixturePassword)
		if err != nil {
			f.t.Fatalf("hash fixture password: %v", err)
		}
		f.hash = h
	}
	return f.hash
}

// CreateUser creates a user with default preferences whose password is
// FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, username, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     email,
		Password:  f.passwordHash(),
		FirstName: "Test",
		LastName:  username,
		Avatar:    "https://example.com/avatars/" + username + ".png",
		EnableNotifications: models.NotificationPrefs{
			NewCampground: true, NewComment: true, NewFollower: true, NewCommentLike: true,
		},
		EnableNotificationEmails: models.EmailPrefs{System: true},
		Followers:                []primitive.ObjectID{},
		Notifications:            []primitive.ObjectID{},
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// Author returns the author snapshot embedded for u.
func Author(u models.User) models.AuthorRef {
	return models.AuthorRef{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

// CreateCampground creates a campground authored by author.
func (f *Fixtures) CreateCampground(ctx context.Context, author models.User, name string) models.Campground {
	f.t.Helper()

	now := time.Now().UTC()
	price := 25.0
	cg := models.Campground{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Price:       &price,
		Image:       "https://example.com/campgrounds/" + name + ".jpg",
		Location:    "Somewhere",
		Description: "A test campground",
		Author:      Author(author),
		Country:     &models.Country{CountryName: "India", TwoLetterCountryCode: "IN"},
		Comments:    []primitive.ObjectID{},
		Amenities:   []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("campgrounds").InsertOne(ctx, cg); err != nil {
		f.t.Fatalf("failed to create test campground: %v", err)
	}
	return cg
}

// CreateComment creates a comment by author, liked by each of likers.
func (f *Fixtures) CreateComment(ctx context.Context, author models.User, text string, likers ...models.User) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Comment{
		ID:        primitive.NewObjectID(),
		Text:      text,
		Author:    Author(author),
		Likes:     make([]models.AuthorRef, 0, len(likers)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, l := range likers {
		c.Likes = append(c.Likes, Author(l))
	}

	if _, err := f.db.Collection("comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return c
}

// AttachComment links an existing comment to a campground.
func (f *Fixtures) AttachComment(ctx context.Context, campgroundID, commentID primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection("campgrounds").UpdateByID(ctx, campgroundID,
		bson.M{"$push": bson.M{"comments": commentID}})
	if err != nil {
		f.t.Fatalf("failed to attach comment: %v", err)
	}
}

// CreateRating records author's score for a campground. updatedAt is
// offset by age so tests can order multiple ratings.
func (f *Fixtures) CreateRating(ctx context.Context, author models.User, campgroundID primitive.ObjectID, score float64, age time.Duration) models.Rating {
	f.t.Helper()

	ts := time.Now().UTC().Add(-age)
	r := models.Rating{
		ID:           primitive.NewObjectID(),
		Rating:       score,
		Author:       Author(author),
		CampgroundID: campgroundID,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	if _, err := f.db.Collection("ratings").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test rating: %v", err)
	}
	return r
}

// CreateFollowNotification stores the NEW_FOLLOWER notification for
// follower following target. It is not linked into target's list.
func (f *Fixtures) CreateFollowNotification(ctx context.Context, follower models.User, target primitive.ObjectID) models.Notification {
	f.t.Helper()

	now := time.Now().UTC()
	n := models.Notification{
		ID:               primitive.NewObjectID(),
		Username:         follower.Username,
		NotificationType: models.NotificationNewFollower,
		Follower: &models.FollowerRef{
			ID:              follower.ID,
			FollowerAvatar:  follower.Avatar,
			FollowingUserID: target,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}

// Follow records follower in target's followers list.
func (f *Fixtures) Follow(ctx context.Context, follower, target primitive.ObjectID) {
	f.t.Helper()
	_, err := f.db.Collection("users").UpdateByID(ctx, target,
		bson.M{"$push": bson.M{"followers": follower}})
	if err != nil {
		f.t.Fatalf("failed to follow: %v", err)
	}
}
