// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (YELPCAMP_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers the HTTP listener, logging level and environment; everything the
// API itself needs lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Credentials
	JWTSecret string        // Secret used to sign bearer tokens
	TokenTTL  time.Duration // Lifetime of an issued token

	// Public client URL used in email links (password reset)
	ClientURL string

	// Email/SMTP configuration
	MailEnabled  bool   // false logs emails instead of sending them
	MailSMTPHost string // SMTP server host (e.g., smtp.gmail.com, or localhost for Mailpit)
	MailSMTPPort int    // SMTP server port
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string // From email address
	MailFromName string // From display name

	// Avatar hosting
	CloudinaryCloudName string // blank disables uploads
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	AvatarFolder        string
	DefaultAvatarURL    string

	ResetTokenTTL time.Duration

	// GraphQL engine
	GraphQLMaxDepth       int
	GraphQLMaxParallelism int
	GraphQLPlayground     bool

	// HTTP
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration

	// Background work
	JobsPollInterval time.Duration
	SweepInterval    time.Duration

	// Database operation timeouts (zero keeps the built-in default)
	DBTimeoutShort  time.Duration
	DBTimeoutMedium time.Duration
	DBTimeoutLong   time.Duration

	// Audit logging
	AuditLogAuth    string
	AuditLogAccount string
}
