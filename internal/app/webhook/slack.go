// internal/app/webhook/slack.go
package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/opsdeck/crewbot/internal/app/command"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

// SlackHandler receives Slack Events API callbacks, verifies their
// signatures, and forwards app mentions to the dispatcher. Malformed or
// unroutable events are logged and acknowledged with 200 so Slack does
// not retry them; nothing an event contains can crash the transport.
type SlackHandler struct {
	Dispatcher    *command.Dispatcher
	SigningSecret string
	BotUserID     string
	Log           *zap.Logger
}

func NewSlackHandler(d *command.Dispatcher, signingSecret, botUserID string, log *zap.Logger) *SlackHandler {
	return &SlackHandler{
		Dispatcher:    d,
		SigningSecret: signingSecret,
		BotUserID:     botUserID,
		Log:           log,
	}
}

// SlackRoutes returns the subrouter mounted under /webhook/slack.
func SlackRoutes(h *SlackHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Serve)
	return r
}

func (h *SlackHandler) Serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, h.SigningSecret)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if _, err := verifier.Write(body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := verifier.Ensure(); err != nil {
		h.Log.Warn("slack signature verification failed", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		h.Log.Warn("unparseable slack event", zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
		return

	case slackevents.CallbackEvent:
		if mention, ok := event.InnerEvent.Data.(*slackevents.AppMentionEvent); ok {
			h.handleMention(r, mention)
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *SlackHandler) handleMention(r *http.Request, mention *slackevents.AppMentionEvent) {
	ev := command.Event{
		Text:    stripMention(mention.Text, h.BotUserID),
		UserID:  mention.User,
		Channel: mention.Channel,
	}

	err := h.Dispatcher.Dispatch(r.Context(), ev)
	switch {
	case errors.Is(err, command.ErrUnhandledCommand):
		h.Log.Warn("unhandled command",
			zap.String("text", ev.Text),
			zap.String("user", ev.UserID))
	case err != nil:
		h.Log.Error("command failed",
			zap.String("text", ev.Text),
			zap.String("user", ev.UserID),
			zap.Error(err))
	}
}

// stripMention removes the leading <@BOTID> token from an app-mention
// text so the dispatcher sees the command itself.
func stripMention(text, botUserID string) string {
	text = strings.TrimSpace(text)
	prefix := "<@" + botUserID + ">"
	if botUserID != "" && strings.HasPrefix(text, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	// Unknown bot ID: drop whatever leading mention is present.
	if strings.HasPrefix(text, "<@") {
		if i := strings.Index(text, ">"); i >= 0 {
			return strings.TrimSpace(text[i+1:])
		}
	}
	return text
}
