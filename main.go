package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebastiantruijens/movie-ranker/internal/cache"
	"github.com/sebastiantruijens/movie-ranker/internal/config"
	"github.com/sebastiantruijens/movie-ranker/internal/consensus"
	"github.com/sebastiantruijens/movie-ranker/internal/detail"
	"github.com/sebastiantruijens/movie-ranker/internal/omdb"
	"github.com/sebastiantruijens/movie-ranker/internal/store"
	"github.com/sebastiantruijens/movie-ranker/internal/watched"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "movie-ranker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := []omdb.Option{omdb.WithRateLimit(cfg.RateLimit)}
	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// The cache is an optimisation; run without it.
			slog.Warn("redis unavailable, caching disabled", "err", err)
		} else {
			rc := cache.NewRedis(rdb, "omdb", cfg.CacheTTL)
			defer rc.Close()
			opts = append(opts, omdb.WithCache(rc))
		}
	}
	client := omdb.NewClient(cfg.BaseURL, cfg.APIKey, opts...)

	var cs detail.ConsensusSource
	if cfg.Consensus {
		cs = consensus.NewClient(cfg.ConsensusBaseURL)
	}

	m := NewModel(Deps{
		Searcher:       client,
		Fetcher:        client,
		Consensus:      cs,
		Watched:        store.Load(backend, watched.StorageKey, watched.List{}),
		MinQueryLength: cfg.MinQueryLength,
		Timeout:        cfg.RequestTimeout,
	})

	slog.Info("starting", "store", cfg.StoreDriver, "dir", cfg.DataDir, "consensus", cfg.Consensus)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(Model); ok {
		fm.teardown()
	}
	if err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

// setupLogging sends slog output to path. With no path logs are discarded,
// since the terminal belongs to the UI.
func setupLogging(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "movie-ranker")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}

func openBackend(cfg config.Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return store.NewSQLiteBackend(cfg.DataDir, "movie-ranker.db")
	default:
		return store.NewFileBackend(cfg.DataDir)
	}
}
