// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/opsdeck/crewbot/internal/app/system/tasks"
	"github.com/opsdeck/crewbot/internal/interface/slackbot"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// Shared long-lived collaborators. Hooks receive DBDeps by value, so
// anything that needs a Shutdown counterpart lives here instead.
var (
	bot       *slackbot.Bot
	jobRunner *tasks.Runner
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It builds the shared Slack client and starts the background job runner.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	bot = slackbot.New(slack.New(appCfg.SlackAPIToken), logger)

	if appCfg.Testing {
		logger.Info("testing mode: background jobs disabled")
		return nil
	}

	jobRunner = tasks.NewRunner(logger,
		tasks.ChannelPromoterJob(bot, appCfg.SlackAnnouncementChannel, logger),
	)
	jobRunner.Start()
	return nil
}
