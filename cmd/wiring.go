package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/adapters/memory"
	"github.com/spigell/assessor/internal/adapters/postgres"
	"github.com/spigell/assessor/internal/hrdirectory"
	"github.com/spigell/assessor/internal/ports"
	"github.com/spigell/assessor/internal/scoring"
	"github.com/spigell/assessor/internal/scoring/gemini"
	"github.com/spigell/assessor/internal/scoring/remote"
	"github.com/spigell/assessor/internal/secrets"
)

const (
	storePostgres = "postgres"
	storeMemory   = "memory"
)

// stores bundles whichever backend was configured.
type stores struct {
	records ports.RecordStore
	bank    ports.QuestionBank
	ping    func(ctx context.Context) error
	close   func()
}

func openStores(ctx context.Context, config *Config, logger *zap.Logger) (*stores, error) {
	switch kind := strings.ToLower(strings.TrimSpace(config.Store)); kind {
	case storeMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		mem := memory.New()
		return &stores{
			records: mem,
			bank:    mem,
			ping:    func(context.Context) error { return nil },
			close:   func() {},
		}, nil
	case storePostgres, "":
		db, err := connectDatabase(ctx, config)
		if err != nil {
			return nil, err
		}
		if config.Database.Migrate {
			if err := db.MigrateUp(ctx, logger.With(zap.String("component", "migrations"))); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &stores{records: db, bank: db, ping: db.Ping, close: db.Close}, nil
	default:
		return nil, fmt.Errorf("unknown store %q (expected %s or %s)", config.Store, storePostgres, storeMemory)
	}
}

func connectDatabase(ctx context.Context, config *Config) (*postgres.DB, error) {
	if strings.TrimSpace(config.Database.URL) == "" {
		return nil, errors.New("database.url is required for the postgres store")
	}
	db, err := postgres.Connect(ctx, config.Database.URL, config.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func newDirectory(config HRConfig, logger *zap.Logger) (*hrdirectory.Client, error) {
	if strings.TrimSpace(config.BaseURL) == "" {
		return nil, errors.New("hr.base-url is required")
	}

	token, err := secrets.Load(secrets.Source{
		Name:     "hr directory token",
		Value:    config.Token,
		File:     config.TokenFile,
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	client := hrdirectory.New(logger.With(zap.String("component", "hr-directory")), config.BaseURL, token)
	if path := strings.TrimSpace(config.Path); path != "" {
		client.Path = path
	}
	if method := strings.ToUpper(strings.TrimSpace(config.Method)); method != "" {
		if method != http.MethodGet && method != http.MethodPost {
			return nil, fmt.Errorf("unsupported hr.method %q", config.Method)
		}
		client.Method = method
	}
	if config.Timeout > 0 {
		client.HTTPClient.Timeout = config.Timeout
	}
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return client, nil
}

func newScorer(ctx context.Context, config ScoringConfig, logger *zap.Logger) (ports.Scorer, error) {
	provider, err := scoring.ParseProvider(config.Provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case scoring.ProviderGemini:
		return newGeminiScorer(ctx, config.Gemini, logger)
	default:
		if strings.TrimSpace(config.URL) == "" {
			return nil, errors.New("scoring.url is required for the remote scoring provider")
		}
		token, err := secrets.Load(secrets.Source{
			Name:     "scoring token",
			Value:    config.Token,
			File:     config.TokenFile,
			Optional: true,
		})
		if err != nil {
			return nil, err
		}
		client := remote.New(logger.With(zap.String("component", "scoring"), zap.String("provider", string(provider))), config.URL, token)
		if config.Timeout > 0 {
			client.HTTPClient.Timeout = config.Timeout
		}
		return client, nil
	}
}

func newGeminiScorer(ctx context.Context, config GeminiConfig, logger *zap.Logger) (ports.Scorer, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.APIKey,
		File:  config.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set scoring.gemini.api-key-file or ASSESSOR_SCORING_GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Model)
	if err != nil {
		return nil, err
	}

	evalLogger := logger.With(
		zap.String("component", "scoring"),
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewEvaluator(generator, evalLogger, config.MaxLogLength), nil
}

// healthCheck fails while draining or when the store cannot be reached.
func healthCheck(draining func() bool, ping func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if draining() {
			return errors.New("shutting down")
		}
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return ping(ctx)
	}
}
