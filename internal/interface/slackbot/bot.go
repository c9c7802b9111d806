// internal/interface/slackbot/bot.go
//
// Package slackbot wraps the Slack Web API behind the small surface the
// rest of the app needs: posting messages, direct messages, and channel
// listing. Failures come back as *APIError so callers can log the failing
// operation without caring about Slack client internals.
package slackbot

import (
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// APIError reports a failed Slack API call.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string { return "slack " + e.Op + ": " + e.Err.Error() }
func (e *APIError) Unwrap() error { return e.Err }

// Bot is the outbound notifier. The underlying client is safe for
// concurrent use, so one Bot is shared by all commands and jobs.
type Bot struct {
	client *slack.Client
	log    *zap.Logger
}

func New(client *slack.Client, log *zap.Logger) *Bot {
	return &Bot{client: client, log: log}
}

// SendToChannel posts message to the given channel ID or name.
func (b *Bot) SendToChannel(message, channel string) error {
	b.log.Debug("sending message to channel", zap.String("channel", channel))
	if _, _, err := b.client.PostMessage(channel, slack.MsgOptionText(message, false)); err != nil {
		b.log.Error("channel message failed",
			zap.String("channel", channel),
			zap.Error(err))
		return &APIError{Op: "chat.postMessage", Err: err}
	}
	return nil
}

// SendDM opens (or reuses) a direct-message conversation with the user
// and posts message there.
func (b *Bot) SendDM(message, userID string) error {
	b.log.Debug("sending direct message", zap.String("user", userID))
	ch, _, _, err := b.client.OpenConversation(&slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		b.log.Error("open dm failed", zap.String("user", userID), zap.Error(err))
		return &APIError{Op: "conversations.open", Err: err}
	}
	if _, _, err := b.client.PostMessage(ch.ID, slack.MsgOptionText(message, false)); err != nil {
		b.log.Error("direct message failed",
			zap.String("user", userID),
			zap.Error(err))
		return &APIError{Op: "chat.postMessage", Err: err}
	}
	return nil
}

// GetChannelUsers returns the user IDs of everyone in the channel.
func (b *Bot) GetChannelUsers(channelID string) ([]string, error) {
	b.log.Debug("retrieving channel members", zap.String("channel", channelID))
	members, _, err := b.client.GetUsersInConversation(&slack.GetUsersInConversationParameters{
		ChannelID: channelID,
	})
	if err != nil {
		b.log.Error("member retrieval failed",
			zap.String("channel", channelID),
			zap.Error(err))
		return nil, &APIError{Op: "conversations.members", Err: err}
	}
	return members, nil
}

// CreateChannel creates a public channel and returns its name.
func (b *Bot) CreateChannel(name string) (string, error) {
	b.log.Debug("creating channel", zap.String("name", name))
	ch, err := b.client.CreateConversation(slack.CreateConversationParams{
		ChannelName: name,
	})
	if err != nil {
		b.log.Error("channel creation failed",
			zap.String("name", name),
			zap.Error(err))
		return "", &APIError{Op: "conversations.create", Err: err}
	}
	return ch.Name, nil
}

// ListPublicChannels returns all non-archived public channels, following
// cursor pagination.
func (b *Bot) ListPublicChannels() ([]slack.Channel, error) {
	var all []slack.Channel
	params := &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Types:           []string{"public_channel"},
	}
	for {
		channels, cursor, err := b.client.GetConversations(params)
		if err != nil {
			return nil, &APIError{Op: "conversations.list", Err: err}
		}
		all = append(all, channels...)
		if cursor == "" {
			return all, nil
		}
		params.Cursor = cursor
	}
}
