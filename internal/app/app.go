package app

import (
	"errors"
	"fmt"
	"time"

	"studykart/pkg/record"
	"studykart/pkg/storage"
)

// User roles stored on the user record.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Content publish states, switched only via ToggleContentStatus.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL    string
	Records        record.Store
	Objects        storage.ObjectStore
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPublicURL string
	MinioUseSSL    bool
	PresignExpiry  time.Duration
}

// App wires the record store, filter engine, and object storage into
// the six resource services.
type App struct {
	records       record.Store
	objects       storage.ObjectStore
	presignExpiry time.Duration
}

// New constructs the application. Records/Objects may be injected for
// tests; otherwise the postgres store and minio client are built from
// the config.
func New(cfg Config) (*App, error) {
	records := cfg.Records
	if records == nil {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("database URL required")
		}
		var err error
		records, err = record.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	objects := cfg.Objects
	if objects == nil {
		var err error
		objects, err = storage.NewMinioStore(
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.MinioBucket,
			cfg.MinioPublicURL,
			cfg.MinioUseSSL,
		)
		if err != nil {
			return nil, err
		}
	}
	presignExpiry := cfg.PresignExpiry
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &App{
		records:       records,
		objects:       objects,
		presignExpiry: presignExpiry,
	}, nil
}
