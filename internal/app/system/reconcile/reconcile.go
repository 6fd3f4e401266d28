// Package reconcile repairs denormalized data: avatar snapshots copied
// into comments and notifications, and notification ids left on users
// after their documents were deleted.
//
// Every operation here is idempotent and safe to re-run.
package reconcile

import (
	"context"
	"fmt"

	commentstore "github.com/dalemusser/yelpcamp/internal/app/store/comments"
	notificationstore "github.com/dalemusser/yelpcamp/internal/app/store/notifications"
	userstore "github.com/dalemusser/yelpcamp/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service bundles the stores reconciliation touches.
type Service struct {
	Users         *userstore.Store
	Comments      *commentstore.Store
	Notifications *notificationstore.Store
}

// FanoutResult counts documents rewritten by AvatarFanout.
type FanoutResult struct {
	CommentAuthors       int64
	CommentLikes         int64
	NotificationFollower int64
}

// AvatarFanout copies the user's current avatar into every snapshot of it:
// authored comments, likes on any comment, and follower notifications.
// The avatar is read fresh, so running it late or twice converges on the
// latest value.
func (s *Service) AvatarFanout(ctx context.Context, userID primitive.ObjectID) (FanoutResult, error) {
	var res FanoutResult

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return res, fmt.Errorf("load user: %w", err)
	}

	if res.CommentAuthors, err = s.Comments.SetAuthorAvatar(ctx, userID, u.Avatar); err != nil {
		return res, fmt.Errorf("comment authors: %w", err)
	}
	if res.CommentLikes, err = s.Comments.SetLikeAvatar(ctx, userID, u.Avatar); err != nil {
		return res, fmt.Errorf("comment likes: %w", err)
	}
	if res.NotificationFollower, err = s.Notifications.SetFollowerAvatar(ctx, userID, u.Avatar); err != nil {
		return res, fmt.Errorf("notifications: %w", err)
	}
	return res, nil
}

// DeadNotificationRefs removes from the user's list every id in refs that
// no longer has a notification document. It returns how many were removed.
func (s *Service) DeadNotificationRefs(ctx context.Context, userID primitive.ObjectID, refs []primitive.ObjectID) (int, error) {
	dead, err := s.deadRefs(ctx, refs)
	if err != nil {
		return 0, err
	}
	if len(dead) == 0 {
		return 0, nil
	}
	if err := s.Users.RemoveNotifications(ctx, userID, dead); err != nil {
		return 0, err
	}
	return len(dead), nil
}

func (s *Service) deadRefs(ctx context.Context, refs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	live, err := s.Notifications.Existing(ctx, refs)
	if err != nil {
		return nil, err
	}
	if len(live) >= len(unique(refs)) {
		return nil, nil
	}
	alive := make(map[primitive.ObjectID]struct{}, len(live))
	for _, id := range live {
		alive[id] = struct{}{}
	}
	var dead []primitive.ObjectID
	seen := make(map[primitive.ObjectID]struct{})
	for _, id := range refs {
		if _, ok := alive[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		dead = append(dead, id)
	}
	return dead, nil
}

// SweepResult summarizes a full sweep.
type SweepResult struct {
	UsersScanned int
	UsersFixed   int
	RefsRemoved  int
}

// SweepNotificationRefs prunes dead notification ids from every user.
func (s *Service) SweepNotificationRefs(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	err := s.Users.EachWithNotifications(ctx, func(r userstore.NotificationRefs) error {
		res.UsersScanned++
		n, err := s.DeadNotificationRefs(ctx, r.ID, r.Notifications)
		if err != nil {
			return fmt.Errorf("user %s: %w", r.ID.Hex(), err)
		}
		if n > 0 {
			res.UsersFixed++
			res.RefsRemoved += n
		}
		return nil
	})
	return res, err
}

func unique(ids []primitive.ObjectID) map[primitive.ObjectID]struct{} {
	m := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
