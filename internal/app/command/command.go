// internal/app/command/command.go
//
// Package command implements the chat commands crewbot understands and the
// dispatcher that routes inbound events to them. Commands are constructed
// once at startup and reused across events; they hold no per-invocation
// state beyond what they read through the facade.
package command

import (
	"context"
	"fmt"
	"strings"
)

// Event is the inbound shape produced by the webhook transport: the raw
// command text (bot mention already stripped), the calling user's Slack
// ID, and the originating channel.
type Event struct {
	Text    string
	UserID  string
	Channel string
}

// Command is one permission-aware operation family. Handle receives the
// raw text after the routing token; a parse failure inside Handle is
// never a fault, the command replies with its help text instead.
type Command interface {
	Name() string
	Help() string
	Handle(ctx context.Context, text, callerID, channel string) error
}

// Notifier is the outbound collaborator commands reply through. Every
// handled event ends in exactly one Notifier call.
type Notifier interface {
	SendToChannel(message, channel string) error
	SendDM(message, userID string) error
}

// permissionError is the fixed message sent when a caller's level is
// below an operation's requirement.
const permissionError = "You do not have the sufficient permission level for this command!"

// lookupError is sent when a referenced user record does not exist.
const lookupError = "User not found!"

// storeError is the generic failure message for infrastructure problems;
// the underlying error is propagated to the caller for logging, never to
// the channel.
const storeError = "Something went wrong talking to the database. Please try again later."

// notify sends msg to the channel and wraps any notification failure.
func notify(n Notifier, msg, channel string) error {
	if err := n.SendToChannel(msg, channel); err != nil {
		return fmt.Errorf("notify channel %s: %w", channel, err)
	}
	return nil
}

// failStore reports an infrastructure failure: the channel gets the
// generic message, the caller gets the real error.
func failStore(n Notifier, channel string, err error) error {
	if nerr := n.SendToChannel(storeError, channel); nerr != nil {
		return fmt.Errorf("store failure (%v) and notify failure: %w", err, nerr)
	}
	return err
}

// summarize joins "key: value" fragments for edit confirmations.
func summarize(prefix string, parts []string) string {
	return prefix + strings.Join(parts, ", ")
}
