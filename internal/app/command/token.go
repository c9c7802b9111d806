// internal/app/command/token.go
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/opsdeck/crewbot/internal/app/facade"
	"github.com/opsdeck/crewbot/internal/app/policy/commandpolicy"
	"github.com/opsdeck/crewbot/internal/domain/models"
	"go.uber.org/zap"
)

const tokenHelp = "Token Command Reference:\n\n" +
	"@crewbot token\n" +
	"    TEAM LEAD/ADMIN ONLY: receive a signed, time-limited API token\n" +
	"    by direct message"

const tokenIssuer = "crewbot"

// TokenConfig carries the issuance parameters: how long a credential
// lives and the key it is signed with.
type TokenConfig struct {
	Expiry     time.Duration
	SigningKey []byte
}

// TokenCommand issues stateless, time-limited credentials. The credential
// is an HS256 JWT carrying the caller's Slack ID; verification needs only
// the signing key, no server-side lookup.
type TokenCommand struct {
	db       facade.DBFacade
	notifier Notifier
	cfg      TokenConfig
	log      *zap.Logger

	// now is replaceable in tests.
	now func() time.Time
}

func NewTokenCommand(db facade.DBFacade, notifier Notifier, cfg TokenConfig, log *zap.Logger) *TokenCommand {
	return &TokenCommand{db: db, notifier: notifier, cfg: cfg, log: log, now: time.Now}
}

func (c *TokenCommand) Name() string { return "token" }
func (c *TokenCommand) Help() string { return tokenHelp }

func (c *TokenCommand) Handle(ctx context.Context, text, callerID, channel string) error {
	if text == "help" {
		return notify(c.notifier, tokenHelp, channel)
	}

	res, err := commandpolicy.Check(ctx, c.db, callerID, models.PermissionTeamLead)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}
	switch res.Outcome {
	case commandpolicy.ActorNotFound:
		return notify(c.notifier, lookupError, channel)
	case commandpolicy.Denied:
		return notify(c.notifier, permissionError, channel)
	}

	token, err := c.Issue(callerID)
	if err != nil {
		return failStore(c.notifier, channel, err)
	}

	c.log.Info("token issued",
		zap.String("actor", callerID),
		zap.Duration("expiry", c.cfg.Expiry))

	msg := fmt.Sprintf("Your API token (valid for %s):\n%s", c.cfg.Expiry, token)
	if err := c.notifier.SendDM(msg, callerID); err != nil {
		return fmt.Errorf("token dm to %s: %w", callerID, err)
	}
	return nil
}

// Issue signs a credential for slackID expiring after the configured
// duration.
func (c *TokenCommand) Issue(slackID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   slackID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.Expiry)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.cfg.SigningKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a credential and returns its claims. It fails
// closed: malformed input, a wrong signing method, a bad signature, a
// missing expiry, or an expired credential all reject.
func VerifyToken(token string, signingKey []byte) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
			}
			return signingKey, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("verify token: invalid")
	}
	return claims, nil
}
