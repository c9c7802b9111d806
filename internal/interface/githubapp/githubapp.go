// internal/interface/githubapp/githubapp.go
//
// Package githubapp authenticates as a GitHub App. The app identity is an
// RS256 JWT (issuer = app ID, 10-minute lifetime) that can be exchanged
// for a short-lived installation token to make API requests with.
package githubapp

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	apiBase   = "https://api.github.com"
	jwtExpiry = 10 * time.Minute
	// accept header required while the Apps API preview is in effect
	acceptHeader = "application/vnd.github.machine-man-preview+json"
)

// Client calls the GitHub Apps API. The app JWT is cached and refreshed
// lazily when it expires; Client is safe for concurrent use.
type Client struct {
	appID string
	key   *rsa.PrivateKey
	http  *http.Client
	log   *zap.Logger

	mu        sync.Mutex
	jwtToken  string
	jwtExpiry time.Time
}

func New(appID string, privateKeyPEM []byte, log *zap.Logger) (*Client, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse github app key: %w", err)
	}
	return &Client{
		appID: appID,
		key:   key,
		http:  &http.Client{Timeout: 30 * time.Second},
		log:   log,
	}, nil
}

// appJWT returns a currently-valid app JWT, signing a fresh one when the
// cached token has expired.
func (c *Client) appJWT() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.jwtToken != "" && now.Before(c.jwtExpiry) {
		return c.jwtToken, nil
	}

	expiry := now.Add(jwtExpiry)
	claims := jwt.RegisteredClaims{
		Issuer:    c.appID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign app jwt: %w", err)
	}

	c.jwtToken = signed
	c.jwtExpiry = expiry
	c.log.Debug("github app jwt refreshed", zap.Time("expiry", expiry))
	return signed, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	token, err := c.appJWT()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("github request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("github request %s: status %s", path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("github response %s: %w", path, err)
		}
	}
	return nil
}

// AppDetails returns the authenticated app's metadata.
func (c *Client) AppDetails(ctx context.Context) (map[string]any, error) {
	var details map[string]any
	if err := c.get(ctx, "/app", &details); err != nil {
		return nil, err
	}
	return details, nil
}

// UserExists reports whether a GitHub account with the given login
// exists, using an installation token for the lookup.
func (c *Client) UserExists(ctx context.Context, login string) (bool, error) {
	token, err := c.CreateAPIToken(ctx)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/users/"+login, nil)
	if err != nil {
		return false, fmt.Errorf("github user lookup %s: %w", login, err)
	}
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("github user lookup %s: %w", login, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, fmt.Errorf("github user lookup %s: status %s", login, resp.Status)
	}
}

// CreateAPIToken exchanges the app JWT for an installation access token
// usable against the regular GitHub API.
func (c *Client) CreateAPIToken(ctx context.Context) (string, error) {
	var installations []struct {
		ID int64 `json:"id"`
	}
	if err := c.get(ctx, "/app/installations", &installations); err != nil {
		return "", err
	}
	if len(installations) == 0 {
		return "", fmt.Errorf("github app has no installations")
	}

	var created struct {
		Token string `json:"token"`
	}
	path := fmt.Sprintf("/app/installations/%d/access_tokens", installations[0].ID)
	if err := c.do(ctx, http.MethodPost, path, &created); err != nil {
		return "", err
	}
	return created.Token, nil
}
