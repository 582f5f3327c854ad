package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/sardonia/theveil/internal/domain/reading"
	"github.com/sardonia/theveil/internal/infra/config"
	"github.com/sardonia/theveil/internal/infra/historyrepo"
	"github.com/sardonia/theveil/internal/infra/llamacpp"
	"github.com/sardonia/theveil/internal/infra/modelfile"
	"github.com/sardonia/theveil/internal/infra/readingstore"
)

func provideReadingConfig(cfg *config.Config) reading.Config {
	return reading.Config{
		ChunkSize:      cfg.Reading.ChunkSize,
		ChunkDelay:     cfg.Reading.ChunkDelay,
		FallbackToStub: cfg.Reading.FallbackToStub,
		CacheTTL:       cfg.Cache.TTL,
		HistoryLimit:   cfg.Reading.HistoryLimit,
		Sampling: reading.SamplingParams{
			Temperature:   cfg.Reading.Sampling.Temperature,
			TopP:          cfg.Reading.Sampling.TopP,
			TopK:          cfg.Reading.Sampling.TopK,
			RepeatPenalty: cfg.Reading.Sampling.RepeatPenalty,
			MaxTokens:     cfg.Reading.Sampling.MaxTokens,
		},
	}
}

func provideControllerConfig(cfg *config.Config) reading.ControllerConfig {
	return reading.ControllerConfig{
		ProgressTick: cfg.Reading.ProgressTick,
		ProgressStep: cfg.Reading.ProgressStep,
	}
}

// provideLoader defers model file resolution to load time so a model dropped
// into place after startup is still found by a later load request.
func provideLoader(cfg *config.Config, logger *slog.Logger) reading.Loader {
	return reading.LoaderFunc(func(ctx context.Context) (reading.LoadedBackend, error) {
		path, err := modelfile.Resolve(modelfile.Config{
			OverridePath: cfg.Model.Path,
			FileName:     cfg.Model.FileName,
			ResourceDir:  cfg.Model.ResourceDir,
			AppDataDir:   cfg.Model.AppDataDir,
			DevMode:      cfg.Model.DevMode,
		})
		if err != nil {
			return reading.LoadedBackend{}, err
		}

		backend, err := llamacpp.Load(llamacpp.Config{
			ContextSize:  cfg.Model.ContextSize,
			GPULayers:    cfg.Model.GPULayers,
			ForceCPU:     cfg.Model.ForceCPU,
			Verbose:      cfg.Model.VerboseLogging,
			ChatTemplate: cfg.Model.ChatTemplate,
			SystemPrompt: cfg.Model.SystemPrompt,
			TokEncoding:  cfg.Model.TokEncoding,
		}, path, logger)
		if err != nil {
			return reading.LoadedBackend{}, err
		}
		return reading.LoadedBackend{
			Backend:   backend,
			ModelPath: backend.ModelPath(),
			SizeBytes: backend.SizeBytes(),
		}, nil
	})
}

func provideHistoryRepository(cfg *config.Config, logger *slog.Logger) reading.HistoryRepository {
	if !cfg.History.Enabled {
		return nil
	}

	if dsn := strings.TrimSpace(cfg.History.PostgresDSN); dsn != "" {
		if repo := buildPostgresRepository(dsn, cfg.History.MaxConns, logger); repo != nil {
			return repo
		}
	}

	if path := strings.TrimSpace(cfg.History.SQLitePath); path != "" {
		repo, err := historyrepo.OpenSQLite(path)
		if err == nil {
			logger.Info("sqlite history repository enabled", "path", path)
			return repo
		}
		logger.Error("sqlite open failed, using memory repository", "error", err)
	}

	return historyrepo.NewMemoryRepository()
}

func buildPostgresRepository(dsn string, maxConns int32, logger *slog.Logger) reading.HistoryRepository {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, trying the next history backend", "error", err)
		return nil
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, trying the next history backend", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	repo, err := historyrepo.NewPostgresRepository(ctx, pool)
	if err != nil {
		logger.Error("postgres history setup failed, trying the next history backend", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres history repository enabled")
	return repo
}

func provideDashboardStore(cfg *config.Config, logger *slog.Logger) reading.DashboardStore {
	if !cfg.Cache.Enabled {
		return nil
	}
	if addr := strings.TrimSpace(cfg.Cache.ValkeyAddr); addr != "" {
		opt, err := buildValkeyOptions(addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return readingstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return readingstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey dashboard store enabled", "addr", addr)
			return readingstore.NewValkeyStore(client, "theveil")
		}
	}
	return readingstore.NewMemoryStore()
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
