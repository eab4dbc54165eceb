package cmd

import (
	"errors"
	"fmt"

	"github.com/facegate/facegate/internal/config"
	"github.com/facegate/facegate/internal/database/postgres"
	"github.com/facegate/facegate/internal/recognizer"
)

// initDatabase connects the global PostgreSQL pool and runs migrations.
func initDatabase(cfg *config.Config) (*postgres.Pool, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}
	if err := postgres.Initialize(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	return postgres.GetGlobalPool(), nil
}

// newProvider picks the dlib recognizer when a model directory is
// configured and falls back to the deterministic stub otherwise. The
// returned closer releases the dlib model memory.
func newProvider(cfg *config.Config) (recognizer.Provider, func(), error) {
	if cfg.Recognizer.ModelDir == "" {
		fmt.Println("FACE_MODEL_DIR not set, using stub recognizer (mock mode)")
		return recognizer.NewStub(), func() {}, nil
	}

	dlib, err := recognizer.NewDlib(cfg.Recognizer.ModelDir)
	if err != nil {
		return nil, nil, err
	}
	return dlib, func() { _ = dlib.Close() }, nil
}
