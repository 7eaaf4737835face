package ims_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/parcelport/carriertransport/internal/ims"
)

type authServer struct {
	mu     sync.Mutex
	issued int
}

func (a *authServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Errorf("expected path /token, got %s", r.URL.Path)
		}

		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("client:secret"))
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("expected basic auth header, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", got)
		}

		a.mu.Lock()
		a.issued++
		token := []byte(`{"token_type": "Bearer", "access_token": "token-` +
			string(rune('0'+a.issued)) + `"}`)
		a.mu.Unlock()
		w.Write(token)
	}
}

func (a *authServer) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.issued
}

func TestTokenSourceCachesToken(t *testing.T) {
	t.Parallel()

	auth := &authServer{}
	server := httptest.NewServer(auth.handler(t))
	t.Cleanup(server.Close)

	source := ims.NewTokenSource(server.URL, "client", "secret", server.Client(), zap.NewNop())

	token, err := source.Token(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "Bearer token-1" {
		t.Errorf("expected Bearer token-1, got %s", token)
	}

	if _, err := source.Token(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.count() != 1 {
		t.Errorf("expected 1 token exchange, got %d", auth.count())
	}
}

func TestTokenSourceInvalidateOnlyDropsStaleToken(t *testing.T) {
	t.Parallel()

	auth := &authServer{}
	server := httptest.NewServer(auth.handler(t))
	t.Cleanup(server.Close)

	source := ims.NewTokenSource(server.URL, "client", "secret", server.Client(), zap.NewNop())

	first, _ := source.Token(context.Background())
	source.Invalidate(first)
	second, _ := source.Token(context.Background())
	if second == first {
		t.Error("expected a fresh token after invalidation")
	}

	// Invalidating the old token again must not drop the current one.
	source.Invalidate(first)
	third, _ := source.Token(context.Background())
	if third != second {
		t.Errorf("expected cached token %s, got %s", second, third)
	}
}

func TestClientRetriesOnceOnUnauthorized(t *testing.T) {
	t.Parallel()

	auth := &authServer{}
	authSrv := httptest.NewServer(auth.handler(t))
	t.Cleanup(authSrv.Close)

	var mu sync.Mutex
	var seenTokens []string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seenTokens = append(seenTokens, r.Header.Get("Authorization"))
		calls := len(seenTokens)
		mu.Unlock()

		if got := r.Header.Get("x-api-key"); got != "api-key" {
			t.Errorf("expected api key header, got %q", got)
		}

		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"carrierName": "Bring", "dataDocument": "{}"}]`))
	}))
	t.Cleanup(api.Close)

	source := ims.NewTokenSource(authSrv.URL, "client", "secret", authSrv.Client(), zap.NewNop())
	client := ims.NewClient(api.URL, "api-key", source, api.Client(), zap.NewNop())

	carriers, err := client.GetCarriers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(carriers) != 1 || carriers[0].CarrierName != "Bring" {
		t.Errorf("expected the Bring carrier, got %+v", carriers)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seenTokens) != 2 {
		t.Fatalf("expected 2 API calls, got %d", len(seenTokens))
	}
	if seenTokens[0] == seenTokens[1] {
		t.Error("expected the retry to carry a fresh token")
	}
}

func TestClientGivesUpAfterSecondUnauthorized(t *testing.T) {
	t.Parallel()

	auth := &authServer{}
	authSrv := httptest.NewServer(auth.handler(t))
	t.Cleanup(authSrv.Close)

	var mu sync.Mutex
	calls := 0
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(api.Close)

	source := ims.NewTokenSource(authSrv.URL, "client", "secret", authSrv.Client(), zap.NewNop())
	client := ims.NewClient(api.URL, "api-key", source, api.Client(), zap.NewNop())

	if _, err := client.GetCarriers(context.Background()); err == nil {
		t.Error("expected error after repeated 401")
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Errorf("expected exactly 2 API calls, got %d", calls)
	}
}
