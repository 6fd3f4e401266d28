package graph

import (
	"context"
	"errors"

	notificationstore "github.com/dalemusser/yelpcamp/internal/app/store/notifications"
	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/inputval"
	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// errNoMatch aborts a follow transaction whose target update matched
// nothing.
var errNoMatch = errors.New("follow target not matched")

type toggleFollowArgs struct {
	UserToFollowID graphql.ID
	Follow         bool
}

// ToggleFollowUser makes the caller follow or unfollow another user.
func (r *Resolver) ToggleFollowUser(ctx context.Context, args toggleFollowArgs) (string, error) {
	uid, err := r.requireCaller(ctx, "Mutation.toggleFollowUser")
	if err != nil {
		return "", err
	}
	targetID, err := requiredID(args.UserToFollowID, inputval.EntityUser, "Information on user to follow is required")
	if err != nil {
		return "", err
	}

	target, err := r.users.GetByID(ctx, targetID)
	if err != nil {
		return "", r.notFound("Error fetching details for the user to follow!", err)
	}

	if args.Follow {
		return r.follow(ctx, uid, target)
	}
	return r.unfollow(ctx, uid, target)
}

func (r *Resolver) follow(ctx context.Context, uid primitive.ObjectID, target *models.User) (string, error) {
	follower, err := r.users.GetByID(ctx, uid)
	if err != nil {
		return "", r.notFound("Error fetching current user data!", err)
	}

	notify := target.EnableNotifications.NewFollower
	err = r.inTxn(ctx, func(ctx context.Context) error {
		n, err := r.users.AddFollower(ctx, target.ID, uid)
		if err != nil {
			return err
		}
		if n == 0 {
			return errNoMatch
		}
		if !notify {
			return nil
		}
		note, err := r.notifications.Create(ctx, notificationstore.NewFollower(*follower, target.ID))
		if err != nil {
			return err
		}
		return r.users.AddNotification(ctx, target.ID, note.ID)
	})
	if errors.Is(err, errNoMatch) {
		return "", apperr.Conflict("Unknown error following user!")
	}
	if err != nil {
		return "", r.internal("Unknown error following user!", err)
	}

	if target.EnableNotificationEmails.NewFollower {
		r.mail.Dispatch(mailer.ProcessNewFollower, mailer.BuildNewFollowerEmail(target.Email, mailer.NewFollowerData{
			ClientURL:        r.clientURL,
			RecipientName:    target.FirstName,
			FollowerID:       follower.ID.Hex(),
			FollowerUsername: follower.Username,
			FollowerAvatar:   follower.Avatar,
		}))
	}
	return "User followed successfully!", nil
}

func (r *Resolver) unfollow(ctx context.Context, uid primitive.ObjectID, target *models.User) (string, error) {
	err := r.inTxn(ctx, func(ctx context.Context) error {
		ids, err := r.notifications.FollowIDs(ctx, uid, target.ID)
		if err != nil {
			return err
		}
		if _, err := r.notifications.DeleteByIDs(ctx, ids); err != nil {
			return err
		}
		n, err := r.users.RemoveFollower(ctx, target.ID, uid, ids)
		if err != nil {
			return err
		}
		if n == 0 {
			return errNoMatch
		}
		return nil
	})
	if errors.Is(err, errNoMatch) {
		return "", apperr.Conflict("Unknown error unfollowing user!")
	}
	if err != nil {
		return "", r.internal("Unknown error unfollowing user!", err)
	}

	// The target's list may still hold ids of notifications removed
	// elsewhere; prune them while we are here.
	if fresh, err := r.users.GetByID(ctx, target.ID); err == nil {
		if removed, err := r.reconcile.DeadNotificationRefs(ctx, target.ID, fresh.Notifications); err != nil {
			r.log.Warn("dead notification scan failed", zap.String("user_id", target.ID.Hex()), zap.Error(err))
		} else if removed > 0 {
			r.log.Info("pruned dead notification refs", zap.String("user_id", target.ID.Hex()), zap.Int("removed", removed))
		}
	}
	return "User unfollowed successfully!", nil
}
