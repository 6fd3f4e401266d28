package graph

import (
	"context"

	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/inputval"
	graphql "github.com/graph-gophers/graphql-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgNotificationsInvalid = "Invalid input for updating user notifications!"

func notificationIDs(ids []graphql.ID) ([]primitive.ObjectID, error) {
	if len(ids) == 0 {
		return nil, apperr.Validation(msgNotificationsInvalid)
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	return inputval.ObjectIDs(raw, inputval.EntityNotification)
}

type updateNotificationArgs struct {
	NotificationIDArr []graphql.ID
	IsSetRead         bool
}

// UpdateNotification marks notifications read or unread.
func (r *Resolver) UpdateNotification(ctx context.Context, args updateNotificationArgs) (string, error) {
	if _, err := r.requireCaller(ctx, "Mutation.updateNotification"); err != nil {
		return "", err
	}
	ids, err := notificationIDs(args.NotificationIDArr)
	if err != nil {
		return "", err
	}

	matched, err := r.notifications.SetRead(ctx, ids, args.IsSetRead)
	if err != nil {
		return "", r.internal("Error updating user notifications!", err)
	}
	switch {
	case matched == 0:
		return "", apperr.NotFound("Error updating user notifications!")
	case matched < int64(len(unique(ids))):
		return "Some notifications may not be updated due to them not found in records!", nil
	}
	return "Notifications updated!", nil
}

type deleteNotificationArgs struct {
	NotificationIDArr []graphql.ID
}

// DeleteNotification removes notifications and drops their ids from the
// caller's list. Ids the caller does not hold are ignored.
func (r *Resolver) DeleteNotification(ctx context.Context, args deleteNotificationArgs) (string, error) {
	uid, err := r.requireCaller(ctx, "Mutation.deleteNotification")
	if err != nil {
		return "", err
	}
	requested, err := notificationIDs(args.NotificationIDArr)
	if err != nil {
		return "", err
	}

	u, err := r.users.GetByID(ctx, uid)
	if err != nil {
		return "", r.notFound("Error fetching current user data!", err)
	}
	ids := owned(requested, u.Notifications)
	if len(ids) == 0 {
		return "Notifications deleted!", nil
	}

	err = r.inTxn(ctx, func(ctx context.Context) error {
		if _, err := r.notifications.DeleteByIDs(ctx, ids); err != nil {
			return err
		}
		return r.users.RemoveNotifications(ctx, uid, ids)
	})
	if err != nil {
		return "", r.internal("Error deleting user notifications!", err)
	}
	return "Notifications deleted!", nil
}

// owned keeps the ids of requested that also appear in held.
func owned(requested, held []primitive.ObjectID) []primitive.ObjectID {
	mine := make(map[primitive.ObjectID]struct{}, len(held))
	for _, id := range held {
		mine[id] = struct{}{}
	}
	out := make([]primitive.ObjectID, 0, len(requested))
	for _, id := range unique(requested) {
		if _, ok := mine[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// unique drops repeated ids, keeping first occurrences.
func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
