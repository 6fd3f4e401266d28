// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is the default signing secret. It is fine for local work
// and must be replaced in production.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

const defaultAvatarURL = "https://encrypted-tbn0.gstatic.com/images?q=tbn%3AANd9GcQJS3-GoTF9xqAIyRROWdTD8SUihnSdP5Ac2uPb6AzgGHHyeuuD"

// appConfigKeys defines the configuration keys for YelpCamp.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: YELPCAMP_MONGO_URI, YELPCAMP_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "angular-yelpcamp", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Credentials
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "Bearer token signing secret (must be strong in production)"},
	{Name: "token_ttl", Default: "168h", Desc: "Bearer token lifetime"},
	{Name: "client_url", Default: "http://localhost:4200", Desc: "Public client URL used in email links"},

	// Email/SMTP configuration
	{Name: "mail_enabled", Default: true, Desc: "Send email through SMTP (false logs instead)"},
	{Name: "mail_smtp_host", Default: "smtp.gmail.com", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@yelpcamp.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Angular-YelpCamp", Desc: "From display name"},

	// Avatar hosting
	{Name: "cloudinary_cloud_name", Default: "", Desc: "Cloudinary cloud name (blank disables avatar uploads)"},
	{Name: "cloudinary_api_key", Default: "", Desc: "Cloudinary API key"},
	{Name: "cloudinary_api_secret", Default: "", Desc: "Cloudinary API secret"},
	{Name: "avatar_folder", Default: "avatars", Desc: "Cloudinary folder for avatars"},
	{Name: "default_avatar_url", Default: defaultAvatarURL, Desc: "Avatar assigned at registration"},

	{Name: "reset_token_ttl", Default: "1h", Desc: "Password reset token lifetime"},

	// GraphQL
	{Name: "graphql_max_depth", Default: 12, Desc: "Maximum query depth"},
	{Name: "graphql_max_parallelism", Default: 10, Desc: "Maximum concurrent field resolvers per request"},
	{Name: "graphql_playground", Default: true, Desc: "Serve GraphiQL on GET /graphql for browsers"},

	// HTTP
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins"},
	{Name: "rate_limit_requests", Default: 300, Desc: "Requests allowed per client IP per window on /graphql"},
	{Name: "rate_limit_window", Default: "1m", Desc: "Rate limit window"},

	// Background work
	{Name: "jobs_poll_interval", Default: "5s", Desc: "Job queue polling interval"},
	{Name: "sweep_interval", Default: "1h", Desc: "Dead notification reference sweep interval"},

	// Timeouts
	{Name: "db_timeout_short", Default: "", Desc: "Timeout for single-document operations (default 5s)"},
	{Name: "db_timeout_medium", Default: "", Desc: "Timeout for list queries (default 10s)"},
	{Name: "db_timeout_long", Default: "", Desc: "Timeout for multi-collection operations (default 30s)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_account", Default: "all", Desc: "Account event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, YELPCAMP_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "YELPCAMP", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", 7*24*time.Hour),
		ClientURL: strings.TrimRight(appValues.String("client_url"), "/"),

		// Email/SMTP
		MailEnabled:  appValues.Bool("mail_enabled"),
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		// Avatars
		CloudinaryCloudName: appValues.String("cloudinary_cloud_name"),
		CloudinaryAPIKey:    appValues.String("cloudinary_api_key"),
		CloudinaryAPISecret: appValues.String("cloudinary_api_secret"),
		AvatarFolder:        appValues.String("avatar_folder"),
		DefaultAvatarURL:    appValues.String("default_avatar_url"),

		ResetTokenTTL: appValues.Duration("reset_token_ttl", time.Hour),

		// GraphQL
		GraphQLMaxDepth:       appValues.Int("graphql_max_depth"),
		GraphQLMaxParallelism: appValues.Int("graphql_max_parallelism"),
		GraphQLPlayground:     appValues.Bool("graphql_playground"),

		// HTTP
		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
		RateLimitRequests:  appValues.Int("rate_limit_requests"),
		RateLimitWindow:    appValues.Duration("rate_limit_window", time.Minute),

		// Background work
		JobsPollInterval: appValues.Duration("jobs_poll_interval", 5*time.Second),
		SweepInterval:    appValues.Duration("sweep_interval", time.Hour),

		// Timeouts
		DBTimeoutShort:  appValues.Duration("db_timeout_short", 0),
		DBTimeoutMedium: appValues.Duration("db_timeout_medium", 0),
		DBTimeoutLong:   appValues.Duration("db_timeout_long", 0),

		// Audit logging
		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogAccount: appValues.String("audit_log_account"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// It rejects a malformed MongoDB URI before any connection is attempted,
// and settings that would make every credential or reset token unusable.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := validateAppConfig(appCfg); err != nil {
		return err
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret {
			logger.Warn("jwt_secret is the development default; set YELPCAMP_JWT_SECRET")
		}
		if !appCfg.MailEnabled {
			logger.Warn("mail is disabled; emails will only be logged")
		}
	}
	return nil
}

// validateAppConfig holds the checks that need no logger or core config.
func validateAppConfig(appCfg AppConfig) error {
	if strings.TrimSpace(appCfg.JWTSecret) == "" {
		return errors.New("jwt_secret must not be empty")
	}
	if appCfg.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %s", appCfg.TokenTTL)
	}
	if appCfg.ResetTokenTTL <= 0 {
		return fmt.Errorf("reset_token_ttl must be positive, got %s", appCfg.ResetTokenTTL)
	}
	if appCfg.RateLimitRequests <= 0 {
		return fmt.Errorf("rate_limit_requests must be positive, got %d", appCfg.RateLimitRequests)
	}
	return nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
