// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/yelpcamp/internal/app/graph"
	auditstore "github.com/dalemusser/yelpcamp/internal/app/store/audit"
	jobstore "github.com/dalemusser/yelpcamp/internal/app/store/jobs"
	referencestore "github.com/dalemusser/yelpcamp/internal/app/store/reference"
	userstore "github.com/dalemusser/yelpcamp/internal/app/store/users"
	"github.com/dalemusser/yelpcamp/internal/app/system/auditlog"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/avatars"
	"github.com/dalemusser/yelpcamp/internal/app/system/mailer"
	"github.com/dalemusser/yelpcamp/internal/app/system/reconcile"
	"github.com/dalemusser/yelpcamp/internal/app/system/tasks"
	"github.com/dalemusser/yelpcamp/internal/app/system/timeouts"
	"github.com/dalemusser/yelpcamp/internal/app/system/workers"
	"github.com/dalemusser/yelpcamp/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	mailTimeout       = 30 * time.Second
	jobLease          = 2 * time.Minute
	finishedJobRetain = 7 * 24 * time.Hour
)

// Startup builds the resolver and its collaborators, seeds reference data,
// and starts the background worker and scheduler. It runs after ConnectDB
// and EnsureSchema, before BuildHandler.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.DBTimeoutShort,
		Medium: appCfg.DBTimeoutMedium,
		Long:   appCfg.DBTimeoutLong,
	})

	db := deps.MongoDatabase

	var sender mailer.Sender = mailer.Log{Logger: logger}
	if appCfg.MailEnabled {
		sender = mailer.NewSMTP(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		})
	}
	mail := mailer.NewDispatcher(sender, logger, mailTimeout)

	host, err := avatars.NewCloudinary(avatars.Config{
		CloudName: appCfg.CloudinaryCloudName,
		APIKey:    appCfg.CloudinaryAPIKey,
		APISecret: appCfg.CloudinaryAPISecret,
		Folder:    appCfg.AvatarFolder,
	})
	if err != nil {
		logger.Error("avatar host init failed", zap.Error(err))
		return err
	}
	if appCfg.CloudinaryCloudName == "" {
		logger.Warn("cloudinary not configured; avatar updates will fail")
	}

	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Account: appCfg.AuditLogAccount,
	})

	resolver := graph.NewResolver(db, graph.Deps{
		Client:        deps.MongoClient,
		Tokens:        auth.NewTokens(appCfg.JWTSecret, appCfg.TokenTTL),
		Mail:          mail,
		Avatars:       host,
		AvatarFolder:  host.Folder(),
		Audit:         audit,
		Log:           logger,
		ClientURL:     appCfg.ClientURL,
		DefaultAvatar: appCfg.DefaultAvatarURL,
		ResetTTL:      appCfg.ResetTokenTTL,
	})

	seedCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "seed reference data")
	seeded, err := referencestore.New(db).Seed(seedCtx)
	cancel()
	if err != nil {
		logger.Error("reference data seed failed", zap.Error(err))
		return fmt.Errorf("seed reference data: %w", err)
	}
	if seeded.Hikes+seeded.Amenities+seeded.Countries > 0 {
		logger.Info("seeded reference data",
			zap.Int("hikes", seeded.Hikes),
			zap.Int("amenities", seeded.Amenities),
			zap.Int("countries", seeded.Countries))
	}

	jobs := jobstore.New(db)
	queue := workers.NewQueue(jobs, logger, appCfg.JobsPollInterval, jobLease)
	queue.Handle(models.JobAvatarFanout, avatarFanoutHandler(resolver.Reconcile(), logger))
	queue.Start()

	sched := tasks.NewScheduler(logger)
	sched.Add(tasks.NotificationRefSweepJob(resolver.Reconcile(), logger, appCfg.SweepInterval))
	sched.Add(tasks.ExpiredResetTokenSweepJob(userstore.New(db), logger, appCfg.SweepInterval))
	sched.Add(tasks.FinishedJobPurgeJob(jobs, logger, finishedJobRetain))
	sched.Start()

	*deps.Services = Services{
		Resolver:  resolver,
		Mail:      mail,
		Queue:     queue,
		Scheduler: sched,
	}
	return nil
}

// avatarFanoutHandler runs a queued fan-out. The job key is the user id.
func avatarFanoutHandler(svc *reconcile.Service, logger *zap.Logger) workers.Handler {
	return func(ctx context.Context, key string) error {
		uid, err := primitive.ObjectIDFromHex(key)
		if err != nil {
			return fmt.Errorf("avatar fan-out key %q: %w", key, err)
		}
		ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "avatar fan-out")
		defer cancel()

		res, err := svc.AvatarFanout(ctx, uid)
		if err != nil {
			return err
		}
		logger.Debug("avatar fan-out finished",
			zap.String("user_id", key),
			zap.Int64("comment_authors", res.CommentAuthors),
			zap.Int64("comment_likes", res.CommentLikes),
			zap.Int64("notifications", res.NotificationFollower))
		return nil
	}
}
