package ims

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// TokenSource obtains the IMS bearer token via the OAuth client-credentials
// exchange and caches it for the lifetime of the process. The cache is an
// optimization, not a correctness requirement: Invalidate drops the token
// when the API stops accepting it.
type TokenSource struct {
	authURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          *zap.Logger

	mu    sync.Mutex
	token string
}

// NewTokenSource creates a token source for the given auth endpoint and
// client credentials.
func NewTokenSource(authURL, clientID, clientSecret string, httpClient *http.Client, log *zap.Logger) *TokenSource {
	return &TokenSource{
		authURL:      strings.TrimSuffix(authURL, "/") + "/",
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		log:          log,
	}
}

// Token returns the cached token, exchanging credentials for a fresh one if
// none is cached. Concurrent callers share a single exchange: the mutex is
// held across the fetch.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	token, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	s.token = token

	return token, nil
}

// Invalidate forgets the cached token, but only when it is still the stale
// one. A token refreshed by a concurrent caller survives.
func (s *TokenSource) Invalidate(stale string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == stale {
		s.token = ""
	}
}

func (s *TokenSource) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL+"token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", errors.Wrap(err, "building token request")
	}

	basic := base64.StdEncoding.EncodeToString([]byte(s.clientID + ":" + s.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "requesting token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("token endpoint answered status %d", resp.StatusCode)
	}

	var payload struct {
		TokenType   string `json:"token_type"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "decoding token response")
	}
	if payload.AccessToken == "" {
		return "", errors.New("token response carries no access token")
	}

	s.log.Debug("obtained fresh IMS token")

	return payload.TokenType + " " + payload.AccessToken, nil
}
