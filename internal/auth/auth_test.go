package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avoschat/llmclient-go/internal/config"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	token   *Token
	loadErr error
	saveErr error
	saved   int
}

func (s *memStore) Load() (*Token, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.token == nil {
		return nil, os.ErrNotExist
	}
	return s.token, nil
}

func (s *memStore) Save(t *Token) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = t
	s.saved++
	return nil
}

func fixedNow() time.Time {
	return time.Unix(1_700_000_000, 0)
}

func newTestManager(serverURL string, store Store) *Manager {
	return &Manager{
		cfg: config.OAuthConfig{
			TokenURL:     serverURL,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Scope:        "test-scope",
		},
		store:      store,
		httpClient: http.DefaultClient,
		now:        fixedNow,
	}
}

func TestBasicAuth(t *testing.T) {
	require.Equal(t, "Basic aWQ6c2VjcmV0", BasicAuth("id", "secret"))
}

func TestTokenValid(t *testing.T) {
	now := float64(fixedNow().Unix())

	live := &Token{AccessToken: "x", ExpiresIn: 3600, CreatedAt: now - 100}
	require.True(t, live.Valid(now))

	expired := &Token{AccessToken: "x", ExpiresIn: 3600, CreatedAt: now - 4000}
	require.False(t, expired.Valid(now))

	noExpiry := &Token{AccessToken: "x"}
	require.False(t, noExpiry.Valid(now))
}

// A valid cached token must be returned without touching the network.
func TestManagerToken_CacheHit(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	store := &memStore{token: &Token{
		AccessToken: "cached-token",
		ExpiresIn:   3600,
		CreatedAt:   float64(fixedNow().Unix()) - 60,
	}}

	got, err := newTestManager(srv.URL, store).Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cached-token", got)
	require.Zero(t, hits)
}

func TestManagerToken_ExpiredTokenExchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"fresh-token","expires_in":1800,"token_type":"Bearer"}`)
	}))
	defer srv.Close()

	store := &memStore{token: &Token{
		AccessToken: "stale-token",
		ExpiresIn:   60,
		CreatedAt:   float64(fixedNow().Unix()) - 3600,
	}}

	got, err := newTestManager(srv.URL, store).Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-token", got)

	require.Equal(t, 1, store.saved)
	require.Equal(t, float64(fixedNow().Unix()), store.token.CreatedAt)
	require.Equal(t, float64(1800), store.token.ExpiresIn)
	require.JSONEq(t, `"Bearer"`, string(store.token.Extra["token_type"]))
}

// A corrupt or unreadable cache is a miss, not a failure.
func TestManagerToken_CorruptCacheIsMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"fresh-token","expires_in":1800}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	m := newTestManager(srv.URL, &FileStore{Path: path})
	got, err := m.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-token", got)
}

// A failed cache write still yields the fresh token.
func TestManagerToken_SaveFailureNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"fresh-token","expires_in":1800}`)
	}))
	defer srv.Close()

	store := &memStore{saveErr: os.ErrPermission}
	got, err := newTestManager(srv.URL, store).Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-token", got)
}

func TestExchange_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.Equal(t, BasicAuth("client-id", "client-secret"), r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, "grant_type=client_credentials&scope=test-scope", string(body))

		io.WriteString(w, `{"access_token":"tok","expires_in":60}`)
	}))
	defer srv.Close()

	token, err := Exchange(context.Background(), http.DefaultClient, srv.URL, "client-id", "client-secret", "test-scope")
	require.NoError(t, err)
	require.Equal(t, "tok", token.AccessToken)
}

func TestExchange_Failures(t *testing.T) {
	t.Run("non-JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "<html>gateway error</html>")
		}))
		defer srv.Close()

		_, err := Exchange(context.Background(), http.DefaultClient, srv.URL, "id", "secret", "scope")
		require.Error(t, err)
	})

	t.Run("no access_token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"invalid_client"}`)
		}))
		defer srv.Close()

		_, err := Exchange(context.Background(), http.DefaultClient, srv.URL, "id", "secret", "scope")
		require.Error(t, err)
		require.Contains(t, err.Error(), "no access_token")
	})

	t.Run("network failure", func(t *testing.T) {
		_, err := Exchange(context.Background(), http.DefaultClient, "http://127.0.0.1:1", "id", "secret", "scope")
		require.Error(t, err)
	})
}

// Unknown fields from the token endpoint must survive a trip through the
// cache file.
func TestFileStore_RoundTripKeepsExtraFields(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "token.json")}

	var token Token
	require.NoError(t, json.Unmarshal([]byte(`{"access_token":"tok","expires_in":60,"created_at":100,"token_type":"Bearer","scope":"rw"}`), &token))
	require.NoError(t, store.Save(&token))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "tok", loaded.AccessToken)
	require.Equal(t, float64(60), loaded.ExpiresIn)
	require.Equal(t, float64(100), loaded.CreatedAt)
	require.JSONEq(t, `"Bearer"`, string(loaded.Extra["token_type"]))
	require.JSONEq(t, `"rw"`, string(loaded.Extra["scope"]))
}
