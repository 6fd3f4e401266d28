// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType is the persisted integer kind of a notification.
type NotificationType int32

const (
	NotificationNewCampground     NotificationType = 0
	NotificationNewComment        NotificationType = 1
	NotificationNewAdminRequest   NotificationType = 2
	NotificationNewFollower       NotificationType = 3
	NotificationNewLikeForComment NotificationType = 4
)

var notificationTypeDesc = map[NotificationType]string{
	NotificationNewCampground:     "NEW_CAMPGROUND",
	NotificationNewComment:        "NEW_COMMENT",
	NotificationNewAdminRequest:   "NEW_ADMIN_REQUEST",
	NotificationNewFollower:       "NEW_FOLLOWER",
	NotificationNewLikeForComment: "NEW_LIKE_FOR_COMMENT",
}

// Desc returns the enum name for t. ok is false for an unknown type.
func (t NotificationType) Desc() (desc string, ok bool) {
	desc, ok = notificationTypeDesc[t]
	return desc, ok
}

// FollowerRef records who followed whom for a NEW_FOLLOWER notification.
type FollowerRef struct {
	ID              primitive.ObjectID `bson:"id" json:"id"`
	FollowerAvatar  string             `bson:"followerAvatar" json:"followerAvatar"`
	FollowingUserID primitive.ObjectID `bson:"followingUserId" json:"followingUserId"`
}

// Notification is an in-app event delivered to a user. The owning user
// holds its id in User.Notifications.
type Notification struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Username         string              `bson:"username,omitempty" json:"username,omitempty"`
	NotificationType NotificationType    `bson:"notificationType" json:"notificationType"`
	IsRead           bool                `bson:"isRead" json:"isRead"`
	IsCommentLike    bool                `bson:"isCommentLike" json:"isCommentLike"`
	Follower         *FollowerRef        `bson:"follower,omitempty" json:"follower,omitempty"`
	CampgroundID     *primitive.ObjectID `bson:"campgroundId,omitempty" json:"campgroundId,omitempty"`
	CommentID        *primitive.ObjectID `bson:"commentId,omitempty" json:"commentId,omitempty"`
	UserID           *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt        time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updatedAt" json:"updatedAt"`
}
