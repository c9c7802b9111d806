// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to crewbot: the Mongo connection, the Slack and
// GitHub credentials, and token issuance settings.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Slack configuration
	SlackAPIToken            string // Bot token for the Slack Web API (xoxb-...)
	SlackSigningSecret       string // Secret for verifying inbound event signatures
	SlackBotUserID           string // The bot's own user ID, stripped from mentions
	SlackAnnouncementChannel string // Channel for scheduled announcements
	SlackNotificationChannel string // Fallback channel for operational notices

	// GitHub App configuration
	GithubAppID          string // GitHub App identifier
	GithubPrivateKeyPath string // Path to the app's RSA private key PEM
	GithubWebhookSecret  string // Shared secret for inbound webhook HMACs

	// API token issuance
	TokenSigningKey string        // HMAC key for signed API tokens
	TokenExpiry     time.Duration // Lifetime of issued API tokens

	// Testing disables background jobs and relaxes credential checks.
	Testing bool
}
