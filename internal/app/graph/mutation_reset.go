package graph

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/yelpcamp/internal/app/system/apperr"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgResetRequested  = "If your email is found valid, you shall have a password reset token emailed soon!"
	msgResetTokenBad   = "Password reset token is invalid or has expired."
	msgResetStartError = "Error initiating reset password process!"
	msgResetError      = "Error completing reset password process!"
)

// ResetTokenPayloadResolver answers createResetToken.
type ResetTokenPayloadResolver struct {
	message string
}

func (p *ResetTokenPayloadResolver) Message() string { return p.message }

// newResetToken returns 32 hex characters of randomness.
func newResetToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type emailArgs struct {
	Email string
}

// CreateResetToken starts a password reset for the account with the given
// email. The reply does not reveal whether the account exists.
func (r *Resolver) CreateResetToken(ctx context.Context, args emailArgs) (*ResetTokenPayloadResolver, error) {
	email := strings.TrimSpace(args.Email)
	if email == "" {
		return nil, apperr.Validation("Invalid email for reset password")
	}

	u, err := r.users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.audit.ResetRequested(ctx, nil)
		return &ResetTokenPayloadResolver{message: msgResetRequested}, nil
	}
	if err != nil {
		return nil, r.internal(msgResetStartError, err)
	}

	token := newResetToken()
	if err := r.users.SetResetToken(ctx, u.ID, token, time.Now().Add(r.resetTTL)); err != nil {
		return nil, r.internal(msgResetStartError, err)
	}
	r.audit.ResetRequested(ctx, &u.ID)

	r.mail.Dispatch(mailer.ProcessResetPasswordTokenRequest, mailer.BuildResetRequestEmail(u.Email, mailer.ResetRequestData{
		ClientURL: r.clientURL,
		Token:     token,
	}))
	return &ResetTokenPayloadResolver{message: msgResetRequested}, nil
}

// checkResetToken loads the user holding token. An expired token is
// cleared before it is rejected.
func (r *Resolver) checkResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.Validation("Invalid data format received to reset password. Please contact web administrator.")
	}

	u, err := r.users.GetByResetToken(ctx, token)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.audit.ResetTokenRejected(ctx, nil, "unknown token")
		return nil, apperr.ExpiredToken(msgResetTokenBad)
	}
	if err != nil {
		return nil, r.internal(msgResetError, err)
	}

	if u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(time.Now()) {
		if err := r.users.ClearResetToken(ctx, u.ID); err != nil {
			r.log.Warn("failed to clear expired reset token", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		}
		r.audit.ResetTokenRejected(ctx, &u.ID, "expired token")
		return nil, apperr.ExpiredToken(msgResetTokenBad)
	}
	return u, nil
}

type tokenArgs struct {
	Token string
}

// VerifyResetToken reports whether a reset token can still be used.
func (r *Resolver) VerifyResetToken(ctx context.Context, args tokenArgs) (string, error) {
	if _, err := r.checkResetToken(ctx, strings.TrimSpace(args.Token)); err != nil {
		return "", err
	}
	return "Token verified successfully!", nil
}

type resetPasswordArgs struct {
	Token       string
	NewPassword string
}

// ResetPassword sets a new password using a reset token. The token is
// consumed by the same update that writes the password.
func (r *Resolver) ResetPassword(ctx context.Context, args resetPasswordArgs) (string, error) {
	token := strings.TrimSpace(args.Token)
	if token == "" || strings.TrimSpace(args.NewPassword) == "" {
		return "", apperr.Validation("Invalid input for reset password")
	}

	u, err := r.checkResetToken(ctx, token)
	if err != nil {
		return "", err
	}

	hash, err := auth.HashPassword(args.NewPassword)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return "", apperr.Validation("Password must be 8 characters or longer!")
	}
	if err != nil {
		return "", r.internal(msgResetError, err)
	}

	n, err := r.users.ConsumeResetToken(ctx, token, hash, time.Now())
	if err != nil {
		return "", r.internal(msgResetError, err)
	}
	if n == 0 {
		// Used or expired between the check and the write.
		r.audit.ResetTokenRejected(ctx, &u.ID, "token consumed concurrently")
		return "", apperr.ExpiredToken(msgResetTokenBad)
	}
	r.audit.ResetCompleted(ctx, u.ID)

	r.mail.Dispatch(mailer.ProcessResetPasswordConfirmation, mailer.BuildResetConfirmationEmail(u.Email, mailer.ResetConfirmationData{
		Username: u.Username,
		Email:    u.Email,
	}))
	return "Password reset! Please login with your new password.", nil
}
