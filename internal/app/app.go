package app

import (
	"fmt"
	"time"

	"bookmart/internal/cache"
	"bookmart/pkg/storage"
	"bookmart/pkg/store"
	"bookmart/pkg/token"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL string
	TokenSecret string
	TokenTTL    time.Duration
	TokenIssuer string
	TokenAud    string

	// Pre-built dependencies override the defaults above.
	Store  store.Store
	Tokens *token.Manager
	Blobs  storage.BlobStore
	Stats  cache.StatsCache
}

// App wires storage, credentials and file intake into the operations the
// HTTP boundary exposes.
type App struct {
	store  store.Store
	tokens *token.Manager
	blobs  storage.BlobStore
	stats  cache.StatsCache
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	tokens := cfg.Tokens
	if tokens == nil {
		var err error
		tokens, err = token.NewManager(cfg.TokenSecret, token.Options{
			Issuer:   cfg.TokenIssuer,
			Audience: cfg.TokenAud,
			TTL:      cfg.TokenTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init token manager: %w", err)
		}
	}

	if cfg.Blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}

	return &App{
		store:  dataStore,
		tokens: tokens,
		blobs:  cfg.Blobs,
		stats:  cfg.Stats,
	}, nil
}

// VerifyToken decodes an identity from a bearer token.
func (a *App) VerifyToken(raw string) (token.Identity, error) {
	return a.tokens.Verify(raw)
}
