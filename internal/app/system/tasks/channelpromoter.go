// internal/app/system/tasks/channelpromoter.go
package tasks

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// ChannelLister is the Slack surface the promoter needs.
type ChannelLister interface {
	ListPublicChannels() ([]slack.Channel, error)
	SendToChannel(message, channel string) error
}

// ChannelPromoterJob posts a randomly chosen public channel to the
// announcement channel once a week.
func ChannelPromoterJob(bot ChannelLister, announcementChannel string, log *zap.Logger) Job {
	return Job{
		Name:     "channel-promoter",
		Interval: 7 * 24 * time.Hour,
		Run: func(ctx context.Context) error {
			channels, err := bot.ListPublicChannels()
			if err != nil {
				return fmt.Errorf("list channels: %w", err)
			}
			if len(channels) == 0 {
				log.Warn("channel promoter found no public channels")
				return nil
			}

			pick := channels[rand.IntN(len(channels))]
			msg := fmt.Sprintf("Featured channel of the week: <#%s|%s>!", pick.ID, pick.Name)
			if err := bot.SendToChannel(msg, announcementChannel); err != nil {
				return fmt.Errorf("announce channel %s: %w", pick.Name, err)
			}

			log.Info("channel promoted",
				zap.String("channel", pick.Name),
				zap.String("announced_in", announcementChannel))
			return nil
		},
	}
}
