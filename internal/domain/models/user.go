// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationPrefs controls which events create in-app notifications.
type NotificationPrefs struct {
	NewCampground  bool `bson:"newCampground" json:"newCampground"`
	NewComment     bool `bson:"newComment" json:"newComment"`
	NewFollower    bool `bson:"newFollower" json:"newFollower"`
	NewCommentLike bool `bson:"newCommentLike" json:"newCommentLike"`
}

// EmailPrefs controls which events send an email.
type EmailPrefs struct {
	NewCampground bool `bson:"newCampground" json:"newCampground"`
	NewComment    bool `bson:"newComment" json:"newComment"`
	NewFollower   bool `bson:"newFollower" json:"newFollower"`
	System        bool `bson:"system" json:"system"`
}

// User is a registered account.
//
// Followers and Notifications are back-references by id. Notifications may
// hold ids of documents that were deleted elsewhere until they are pruned.
type User struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username           string             `bson:"username" json:"username"`
	Email              string             `bson:"email" json:"email"`
	Password           string             `bson:"password" json:"-"`
	FirstName          string             `bson:"firstName" json:"firstName"`
	LastName           string             `bson:"lastName" json:"lastName"`
	Avatar             string             `bson:"avatar" json:"avatar"`
	IsAdmin            bool               `bson:"isAdmin" json:"isAdmin"`
	IsPublisher        bool               `bson:"isPublisher" json:"isPublisher"`
	IsRequestedAdmin   bool               `bson:"isRequestedAdmin" json:"isRequestedAdmin"`
	HideStatsDashboard bool               `bson:"hideStatsDashboard" json:"hideStatsDashboard"`

	EnableNotifications      NotificationPrefs `bson:"enableNotifications" json:"enableNotifications"`
	EnableNotificationEmails EmailPrefs        `bson:"enableNotificationEmails" json:"enableNotificationEmails"`

	ResetPasswordToken   *string    `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time `bson:"resetPasswordExpires,omitempty" json:"-"`

	Followers     []primitive.ObjectID `bson:"followers" json:"followers"`
	Notifications []primitive.ObjectID `bson:"notifications" json:"notifications"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AuthorRef is the denormalized author snapshot embedded in campgrounds,
// comments, ratings and comment likes.
type AuthorRef struct {
	ID       primitive.ObjectID `bson:"id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Avatar   string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}
