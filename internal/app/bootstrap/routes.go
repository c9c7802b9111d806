// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"os"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/opsdeck/crewbot/internal/app/command"
	"github.com/opsdeck/crewbot/internal/app/facade"
	"github.com/opsdeck/crewbot/internal/app/health"
	"github.com/opsdeck/crewbot/internal/app/webhook"
	"github.com/opsdeck/crewbot/internal/interface/githubapp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. It builds the facade over the
// three stores, registers the chat commands with the dispatcher, and
// mounts the health and webhook routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := facade.New(deps.MongoDatabase)

	// The GitHub App client is optional; without a key the bot simply
	// skips github username verification.
	var gh command.SourceControl
	if appCfg.GithubAppID != "" && appCfg.GithubPrivateKeyPath != "" {
		pem, err := os.ReadFile(appCfg.GithubPrivateKeyPath)
		if err != nil {
			logger.Error("github app key unreadable", zap.Error(err))
			return nil, err
		}
		client, err := githubapp.New(appCfg.GithubAppID, pem, logger)
		if err != nil {
			logger.Error("github app client init failed", zap.Error(err))
			return nil, err
		}
		gh = client
	}

	dispatcher := command.NewDispatcher(logger)
	dispatcher.Register(command.NewUserCommand(db, bot, gh, logger))
	dispatcher.Register(command.NewTeamCommand(db, bot, logger))
	dispatcher.Register(command.NewProjectCommand(db, bot, logger))
	dispatcher.Register(command.NewTokenCommand(db, bot, command.TokenConfig{
		Expiry:     appCfg.TokenExpiry,
		SigningKey: []byte(appCfg.TokenSigningKey),
	}, logger))

	r := chi.NewRouter()

	healthHandler := health.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", health.Routes(healthHandler))

	slackHandler := webhook.NewSlackHandler(dispatcher, appCfg.SlackSigningSecret, appCfg.SlackBotUserID, logger)
	r.Mount("/webhook/slack", webhook.SlackRoutes(slackHandler))

	githubHandler := webhook.NewGitHubHandler(db, appCfg.GithubWebhookSecret, logger)
	r.Mount("/webhook/github", webhook.GitHubRoutes(githubHandler))

	return r, nil
}
