package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"bookmart/internal/app"
	"bookmart/internal/cache"
	"bookmart/internal/config"
	"bookmart/internal/server"
	"bookmart/internal/util"
	"bookmart/pkg/storage"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := util.InitLogger(cfg.LogLevel)

	tokenTTL, err := config.ParseTokenTTL(cfg.TokenTTL)
	if err != nil {
		logger.Error("parse token ttl", "error", err)
		os.Exit(1)
	}
	statsTTL, err := config.ParseStatsCacheTTL(cfg.StatsCacheTTL)
	if err != nil {
		logger.Error("parse stats cache ttl", "error", err)
		os.Exit(1)
	}

	blobs, filesDir, err := buildBlobStore(cfg)
	if err != nil {
		logger.Error("init blob store", "error", err)
		os.Exit(1)
	}

	var stats cache.StatsCache
	if cfg.RedisAddr != "" {
		stats = cache.NewRedisStatsCache(cfg.RedisAddr, cfg.RedisPassword, statsTTL)
		logger.Info("stats cache enabled", "addr", cfg.RedisAddr)
	}

	core, err := app.New(app.Config{
		DatabaseURL: cfg.DatabaseURL,
		TokenSecret: cfg.TokenSecret,
		TokenTTL:    tokenTTL,
		TokenIssuer: cfg.TokenIssuer,
		TokenAud:    cfg.TokenAudience,
		Blobs:       blobs,
		Stats:       stats,
	})
	if err != nil {
		logger.Error("init app", "error", err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		App:          core,
		FilesDir:     filesDir,
		FilesBaseURL: cfg.FilesBaseURL,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	logger.Info("bookmart listening", "port", cfg.Port, "storage", cfg.StorageBackend)
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// buildBlobStore selects the configured storage backend. The returned dir is
// non-empty only for the local backend, where the server also serves the
// files itself.
func buildBlobStore(cfg config.FileConfig) (storage.BlobStore, string, error) {
	if cfg.StorageBackend == config.BackendMinio {
		blobs, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.MinioPublicBaseURL,
		})
		return blobs, "", err
	}
	blobs, err := storage.NewDiskStore(cfg.StorageDir, cfg.FilesBaseURL)
	return blobs, cfg.StorageDir, err
}
