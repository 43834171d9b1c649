package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/avoschat/llmclient-go/internal/config"
	"github.com/avoschat/llmclient-go/internal/logger"
)

// Store persists one token record between runs.
type Store interface {
	Load() (*Token, error)
	Save(*Token) error
}

// FileStore keeps the token as a JSON file. The file holds a live
// credential in plaintext and must be treated as sensitive.
type FileStore struct {
	Path string
}

func (s *FileStore) Load() (*Token, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *FileStore) Save(token *Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o600)
}

// Manager serves bearer tokens, reusing the stored record until it expires.
type Manager struct {
	cfg        config.OAuthConfig
	store      Store
	httpClient *http.Client
	now        func() time.Time
}

// NewManager builds a Manager over a file-backed store at the configured
// cache path.
func NewManager(cfg config.OAuthConfig) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      &FileStore{Path: cfg.CachePath},
		httpClient: http.DefaultClient,
		now:        time.Now,
	}
}

// Token returns a valid access token, from the store when possible,
// otherwise via a fresh credential exchange. Store read failures are a
// cache miss, not an error; exchange failures propagate.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if cached, err := m.store.Load(); err != nil {
		if !os.IsNotExist(err) {
			logger.L.Warn("token cache read failed, treating as miss", "error", err)
		}
	} else if cached.Valid(float64(m.now().Unix())) {
		logger.L.Debug("using cached token")
		return cached.AccessToken, nil
	}

	token, err := Exchange(ctx, m.httpClient, m.cfg.TokenURL, m.cfg.ClientID, m.cfg.ClientSecret, m.cfg.Scope)
	if err != nil {
		return "", err
	}
	token.CreatedAt = float64(m.now().Unix())

	if err := m.store.Save(token); err != nil {
		// The fresh token is still good; only the reuse across runs is lost.
		logger.L.Warn("token cache write failed", "error", err)
	}
	return token.AccessToken, nil
}
