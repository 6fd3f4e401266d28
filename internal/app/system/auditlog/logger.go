// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/yelpcamp/internal/app/store/audit"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls authentication events (login, registration, password).
	Auth string
	// Account controls profile changes (settings, avatar).
	Account string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// withRequest fills the client IP and user agent from the request identity.
func withRequest(ctx context.Context, event audit.Event) audit.Event {
	if id, ok := auth.FromContext(ctx); ok {
		if event.IP == "" {
			event.IP = id.IP
		}
		if event.UserAgent == "" {
			event.UserAgent = id.UserAgent
		}
	}
	return event
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAccount:
		setting = l.config.Account
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	event = withRequest(ctx, event)

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// Registered logs a new account.
func (l *Logger) Registered(ctx context.Context, userID primitive.ObjectID, username string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"username": username},
	})
}

// LoginSuccess logs a successful login. via is "email" or "username".
func (l *Logger) LoginSuccess(ctx context.Context, userID primitive.ObjectID, via, loginID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"login_via": via, "login_id": loginID},
	})
}

// LoginFailedMissingInput logs a login attempt lacking an identifier or password.
func (l *Logger) LoginFailedMissingInput(ctx context.Context) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedMissingInput,
		Success:       false,
		FailureReason: "missing login id or password",
	})
}

// LoginFailedUserNotFound logs a login attempt for an unknown account.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		Success:       false,
		FailureReason: "user not found",
		Details:       map[string]string{"login_id": loginID},
	})
}

// LoginFailedWrongPassword logs a login attempt with a bad password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, userID primitive.ObjectID, loginID string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		Success:       false,
		FailureReason: "wrong password",
		Details:       map[string]string{"login_id": loginID},
	})
}

// PasswordChanged logs a password change by the account holder.
func (l *Logger) PasswordChanged(ctx context.Context, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &userID,
		Success:   true,
	})
}

// PasswordChangeFailed logs a rejected password change.
func (l *Logger) PasswordChangeFailed(ctx context.Context, userID primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventPasswordChangeFailed,
		UserID:        &userID,
		Success:       false,
		FailureReason: reason,
	})
}

// ResetRequested logs a password reset request. userID is nil when the
// email matched no account.
func (l *Logger) ResetRequested(ctx context.Context, userID *primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventResetRequested,
		UserID:    userID,
		Success:   userID != nil,
	})
}

// ResetCompleted logs a password set through a reset token.
func (l *Logger) ResetCompleted(ctx context.Context, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventResetCompleted,
		UserID:    &userID,
		Success:   true,
	})
}

// ResetTokenRejected logs an unknown or expired reset token.
func (l *Logger) ResetTokenRejected(ctx context.Context, userID *primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventResetTokenRejected,
		UserID:        userID,
		Success:       false,
		FailureReason: reason,
	})
}

// --- Account Events ---

// SettingsUpdated logs a profile settings change.
func (l *Logger) SettingsUpdated(ctx context.Context, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccount,
		EventType: audit.EventSettingsUpdated,
		UserID:    &userID,
		Success:   true,
	})
}

// AvatarUpdated logs a new avatar.
func (l *Logger) AvatarUpdated(ctx context.Context, userID primitive.ObjectID, avatar string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAccount,
		EventType: audit.EventAvatarUpdated,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"avatar": avatar},
	})
}
