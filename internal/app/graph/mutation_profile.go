package graph

import (
	"context"
	"errors"
	"strings"
	"time"

	userstore "github.com/dalemusser/yelpcamp/internal/app/store/users"
	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/avatars"
	"github.com/dalemusser/yelpcamp/internal/app/system/htmlsanitize"
	"github.com/dalemusser/yelpcamp/internal/app/system/inputval"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.uber.org/zap"
)

const (
	msgPasswordUpdateFailed = "Error updating password!"

	avatarDestroyTimeout = 30 * time.Second
)

type avatarArgs struct {
	Avatar string
}

// UpdateUserAvatar rehosts the image at the given URL and makes it the
// caller's avatar. Snapshots of the old avatar are rewritten by the
// avatar fan-out job, which is also attempted inline.
func (r *Resolver) UpdateUserAvatar(ctx context.Context, args avatarArgs) (string, error) {
	uid, err := r.requireCaller(ctx, "Mutation.updateUserAvatar")
	if err != nil {
		return "", err
	}

	u, err := r.users.GetByID(ctx, uid)
	if err != nil {
		return "", r.notFound("Error fetching current user data!", err)
	}

	source := strings.TrimSpace(args.Avatar)
	if source == "" || !inputval.IsValidHTTPURL(source) {
		return "", apperr.Validation("Invalid url for new user avatar image!")
	}
	if r.avatars == nil {
		return "", apperr.ExternalService("Error updating user avatar!", avatars.ErrNotConfigured)
	}

	hosted, err := r.avatars.Upload(ctx, source)
	if err != nil {
		r.log.Warn("avatar upload failed", zap.String("user_id", uid.Hex()), zap.Error(err))
		return "", apperr.ExternalService("Error updating user avatar!", err)
	}

	n, err := r.users.SetAvatar(ctx, uid, hosted)
	if err != nil {
		return "", r.internal("Error updating user avatar!", err)
	}
	if n == 0 {
		return "", apperr.NotFound("user avatar update failed!")
	}
	r.audit.AvatarUpdated(ctx, uid, hosted)

	if old := u.Avatar; old != hosted {
		if publicID := avatars.PublicID(old, r.avatarFolder); publicID != "" {
			go r.destroyAvatar(publicID)
		}
	}

	if err := r.jobs.Enqueue(ctx, models.JobAvatarFanout, uid.Hex()); err != nil {
		r.log.Error("failed to enqueue avatar fan-out", zap.String("user_id", uid.Hex()), zap.Error(err))
	}
	if _, err := r.reconcile.AvatarFanout(ctx, uid); err != nil {
		r.log.Warn("inline avatar fan-out failed, left to worker", zap.String("user_id", uid.Hex()), zap.Error(err))
	}

	return "User avatar updated!", nil
}

func (r *Resolver) destroyAvatar(publicID string) {
	ctx, cancel := context.WithTimeout(context.Background(), avatarDestroyTimeout)
	defer cancel()
	if err := r.avatars.Destroy(ctx, publicID); err != nil {
		r.log.Warn("failed to destroy old avatar", zap.String("public_id", publicID), zap.Error(err))
	}
}

type passwordArgs struct {
	OldPassword string
	NewPassword string
}

// UpdateUserPassword changes the caller's password after checking the
// current one.
func (r *Resolver) UpdateUserPassword(ctx context.Context, args passwordArgs) (string, error) {
	uid, err := r.requireCaller(ctx, "Mutation.updateUserPassword")
	if err != nil {
		return "", err
	}

	oldPassword := strings.TrimSpace(args.OldPassword)
	newPassword := strings.TrimSpace(args.NewPassword)
	if oldPassword == "" || newPassword == "" {
		r.audit.PasswordChangeFailed(ctx, uid, "missing input")
		return "", apperr.Authentication(msgPasswordUpdateFailed)
	}

	hash, err := auth.HashPassword(newPassword)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return "", apperr.Validation("Password must be 8 characters or longer!")
	}
	if err != nil {
		return "", r.internal(msgPasswordUpdateFailed, err)
	}

	u, err := r.users.GetByID(ctx, uid)
	if err != nil {
		r.log.Warn("password change for unknown user", zap.String("user_id", uid.Hex()), zap.Error(err))
		return "", apperr.Authentication(msgPasswordUpdateFailed)
	}
	if !auth.MatchPassword(oldPassword, u.Password) {
		r.audit.PasswordChangeFailed(ctx, uid, "wrong password")
		return "", apperr.Authentication(msgPasswordUpdateFailed)
	}

	n, err := r.users.SetPassword(ctx, uid, hash)
	if err != nil {
		return "", r.internal("Server error updating password, please try again after some time or contact administrator!", err)
	}
	if n == 0 {
		return "", apperr.Authentication(msgPasswordUpdateFailed)
	}
	r.audit.PasswordChanged(ctx, uid)
	return "Password changed!", nil
}

type notificationPrefsInput struct {
	NewCampground  bool
	NewComment     bool
	NewFollower    bool
	NewCommentLike bool
}

type emailPrefsInput struct {
	NewCampground bool
	NewComment    bool
	NewFollower   bool
}

type settingsInput struct {
	Firstname                string
	Lastname                 string
	Email                    string
	HideStatsDashboard       bool
	EnableNotifications      notificationPrefsInput
	EnableNotificationEmails emailPrefsInput
}

type settingsArgs struct {
	UserData settingsInput
}

// UpdateUserSettings writes the caller's profile and preference flags.
func (r *Resolver) UpdateUserSettings(ctx context.Context, args settingsArgs) (string, error) {
	uid, err := r.requireCaller(ctx, "Mutation.updateUserSettings")
	if err != nil {
		return "", err
	}

	in := args.UserData
	firstName := htmlsanitize.StripTags(strings.TrimSpace(in.Firstname))
	lastName := htmlsanitize.StripTags(strings.TrimSpace(in.Lastname))
	email := strings.TrimSpace(in.Email)
	if firstName == "" || lastName == "" || email == "" || !inputval.IsValidEmail(email) {
		return "", apperr.Validation("Invalid input received!")
	}

	n, err := r.users.UpdateSettings(ctx, uid, userstore.Settings{
		FirstName:          firstName,
		LastName:           lastName,
		Email:              email,
		HideStatsDashboard: in.HideStatsDashboard,
		EnableNotifications: models.NotificationPrefs{
			NewCampground:  in.EnableNotifications.NewCampground,
			NewComment:     in.EnableNotifications.NewComment,
			NewFollower:    in.EnableNotifications.NewFollower,
			NewCommentLike: in.EnableNotifications.NewCommentLike,
		},
		EnableNotificationEmails: userstore.EmailSettings{
			NewCampground: in.EnableNotificationEmails.NewCampground,
			NewComment:    in.EnableNotificationEmails.NewComment,
			NewFollower:   in.EnableNotificationEmails.NewFollower,
		},
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return "", apperr.Conflict(msgEmailTaken)
	}
	if err != nil {
		return "", r.internal("User settings update failed!", err)
	}
	if n == 0 {
		return "", apperr.NotFound("User settings update failed!")
	}
	r.audit.SettingsUpdated(ctx, uid)
	return "User settings updated!", nil
}
