// internal/app/webhook/github.go
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/opsdeck/crewbot/internal/app/facade"
	"github.com/opsdeck/crewbot/internal/app/store/query"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.uber.org/zap"
)

// GitHubHandler receives GitHub webhooks. Payloads are authenticated with
// the shared HMAC secret; organization membership removals clear the
// member's github username from their stored record so stale links never
// linger.
type GitHubHandler struct {
	DB     facade.DBFacade
	Secret string
	Log    *zap.Logger
}

func NewGitHubHandler(db facade.DBFacade, secret string, log *zap.Logger) *GitHubHandler {
	return &GitHubHandler{DB: db, Secret: secret, Log: log}
}

// GitHubRoutes returns the subrouter mounted under /webhook/github.
func GitHubRoutes(h *GitHubHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Serve)
	return r
}

type githubEvent struct {
	Action string `json:"action"`
	Member struct {
		Login string `json:"login"`
	} `json:"member"`
	Membership struct {
		User struct {
			Login string `json:"login"`
		} `json:"user"`
	} `json:"membership"`
}

func (h *GitHubHandler) Serve(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if !h.validSignature(r.Header.Get("X-Hub-Signature-256"), body) {
		h.Log.Warn("github signature verification failed")
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	var ev githubEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		h.Log.Warn("unparseable github event",
			zap.String("type", eventType),
			zap.Error(err))
		w.WriteHeader(http.StatusOK)
		return
	}

	switch eventType {
	case "organization":
		if ev.Action == "member_removed" {
			h.memberRemoved(r, ev.Membership.User.Login)
		}
	case "member":
		if ev.Action == "removed" {
			h.memberRemoved(r, ev.Member.Login)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// memberRemoved clears the github username on every user record linked to
// login. The records themselves are kept; only the source-control link is
// severed.
func (h *GitHubHandler) memberRemoved(r *http.Request, login string) {
	if login == "" {
		return
	}
	users, err := h.DB.QueryUser(r.Context(), []query.Predicate{
		query.For(models.KindUser, "github", login),
	})
	if err != nil {
		h.Log.Error("github member lookup failed",
			zap.String("login", login),
			zap.Error(err))
		return
	}
	for i := range users {
		u := users[i]
		u.GithubUsername = ""
		if _, err := h.DB.StoreUser(r.Context(), &u); err != nil {
			h.Log.Error("github unlink failed",
				zap.String("slack_id", u.SlackID),
				zap.Error(err))
			continue
		}
		h.Log.Info("github username unlinked",
			zap.String("slack_id", u.SlackID),
			zap.String("login", login))
	}
}

func (h *GitHubHandler) validSignature(header string, body []byte) bool {
	if h.Secret == "" || !strings.HasPrefix(header, "sha256=") {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.Secret))
	mac.Write(body)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(header), []byte(want))
}
