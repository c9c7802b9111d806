// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for crewbot.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, slack_api_token, etc.
//   - Environment variables: CREWBOT_MONGO_URI, CREWBOT_SLACK_API_TOKEN, etc.
//   - Command-line flags: --mongo_uri, --slack_api_token, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "crewbot", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Slack configuration
	{Name: "slack_api_token", Default: "", Desc: "Slack bot token (xoxb-...)"},
	{Name: "slack_signing_secret", Default: "", Desc: "Slack signing secret for inbound events"},
	{Name: "slack_bot_user_id", Default: "", Desc: "Slack user ID of the bot itself"},
	{Name: "slack_announcement_channel", Default: "#general", Desc: "Channel for scheduled announcements"},
	{Name: "slack_notification_channel", Default: "#crewbot-log", Desc: "Fallback channel for operational notices"},

	// GitHub App configuration
	{Name: "github_app_id", Default: "", Desc: "GitHub App ID"},
	{Name: "github_private_key_path", Default: "", Desc: "Path to the GitHub App RSA private key (PEM)"},
	{Name: "github_webhook_secret", Default: "", Desc: "Shared secret for GitHub webhook HMACs"},

	// API token issuance
	{Name: "token_signing_key", Default: "", Desc: "HMAC key for signed API tokens (required in production)"},
	{Name: "token_expiry", Default: "24h", Desc: "Lifetime of issued API tokens (e.g., 24h, 30m)"},

	// Testing mode
	{Name: "testing", Default: false, Desc: "Disable background jobs and relax credential checks"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CREWBOT_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CREWBOT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SlackAPIToken:            appValues.String("slack_api_token"),
		SlackSigningSecret:       appValues.String("slack_signing_secret"),
		SlackBotUserID:           appValues.String("slack_bot_user_id"),
		SlackAnnouncementChannel: appValues.String("slack_announcement_channel"),
		SlackNotificationChannel: appValues.String("slack_notification_channel"),

		GithubAppID:          appValues.String("github_app_id"),
		GithubPrivateKeyPath: appValues.String("github_private_key_path"),
		GithubWebhookSecret:  appValues.String("github_webhook_secret"),

		TokenSigningKey: appValues.String("token_signing_key"),
		TokenExpiry:     appValues.Duration("token_expiry", 24*time.Hour),

		Testing: appValues.Bool("testing"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before any connection attempt so a
// bad deployment fails at startup, not on the first query. Credentials
// are required outside testing mode.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.Testing {
		return nil
	}

	if appCfg.SlackAPIToken == "" {
		return fmt.Errorf("slack_api_token must be set")
	}
	if appCfg.SlackSigningSecret == "" {
		return fmt.Errorf("slack_signing_secret must be set")
	}
	if appCfg.TokenSigningKey == "" {
		return fmt.Errorf("token_signing_key must be set")
	}
	if appCfg.TokenExpiry <= 0 {
		return fmt.Errorf("token_expiry must be positive, got %s", appCfg.TokenExpiry)
	}

	return nil
}
