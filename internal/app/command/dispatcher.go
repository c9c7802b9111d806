// internal/app/command/dispatcher.go
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrUnhandledCommand is the routing-failure sentinel: the event's leading
// token matched no registered command, or the event carried no text at
// all. It is reported to the transport, never raised as a crash.
var ErrUnhandledCommand = errors.New("unhandled command")

// Dispatcher routes an inbound event to the command registered under the
// event's leading token. One command instance per name, registered once
// at startup; Dispatch is safe for concurrent use.
type Dispatcher struct {
	commands map[string]Command
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{commands: make(map[string]Command), log: log}
}

// Register adds cmd under its routing name. Later registrations under the
// same name replace earlier ones.
func (d *Dispatcher) Register(cmd Command) {
	d.commands[cmd.Name()] = cmd
}

// Dispatch splits the event text on the first whitespace, looks up the
// command for the leading token, and forwards the remainder verbatim.
// A missing or unknown token yields ErrUnhandledCommand.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return fmt.Errorf("%w: empty event text", ErrUnhandledCommand)
	}

	token := text
	rest := ""
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		token = text[:i]
		rest = strings.TrimSpace(text[i+1:])
	}

	cmd, ok := d.commands[token]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnhandledCommand, token)
	}

	d.log.Debug("dispatching command",
		zap.String("command", token),
		zap.String("user", ev.UserID),
		zap.String("channel", ev.Channel))

	return cmd.Handle(ctx, rest, ev.UserID, ev.Channel)
}
