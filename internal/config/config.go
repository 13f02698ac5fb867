// Package config loads runtime configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by StoreDriver.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	APIKey         string        // OMDB_API_KEY, required
	BaseURL        string        // OMDB_BASE_URL
	RequestTimeout time.Duration // REQUEST_TIMEOUT
	RateLimit      float64       // OMDB_RATE_LIMIT, requests per second, 0 disables
	MinQueryLength int           // MIN_QUERY_LENGTH

	StoreDriver string // STORE_DRIVER: file or sqlite
	DataDir     string // DATA_DIR

	RedisAddr     string        // REDIS_ADDR, empty disables the response cache
	RedisPassword string        // REDIS_PASSWORD
	RedisDB       int           // REDIS_DB
	CacheTTL      time.Duration // CACHE_TTL

	Consensus        bool   // CONSENSUS_ENABLED
	ConsensusBaseURL string // CONSENSUS_BASE_URL

	LogFile string // LOG_FILE, empty discards logs
}

// Load reads a .env file from the working directory when present and then
// builds a Config from the environment. Variables already set in the
// environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		APIKey:           strings.TrimSpace(os.Getenv("OMDB_API_KEY")),
		BaseURL:          getenv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		RequestTimeout:   parseDur(getenv("REQUEST_TIMEOUT", "8s"), 8*time.Second),
		RateLimit:        parseFloat(getenv("OMDB_RATE_LIMIT", "5")),
		MinQueryLength:   atoi(getenv("MIN_QUERY_LENGTH", "3"), 3),
		StoreDriver:      strings.ToLower(getenv("STORE_DRIVER", DriverFile)),
		DataDir:          getenv("DATA_DIR", defaultDataDir()),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          atoi(getenv("REDIS_DB", "0"), 0),
		CacheTTL:         parseDur(getenv("CACHE_TTL", "10m"), 10*time.Minute),
		Consensus:        parseBool(getenv("CONSENSUS_ENABLED", "false")),
		ConsensusBaseURL: getenv("CONSENSUS_BASE_URL", "https://www.rottentomatoes.com"),
		LogFile:          os.Getenv("LOG_FILE"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first problem with the configuration.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("missing required env var: OMDB_API_KEY")
	}
	if c.MinQueryLength < 1 {
		return fmt.Errorf("invalid MIN_QUERY_LENGTH: %d", c.MinQueryLength)
	}
	switch c.StoreDriver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".movie-ranker"
	}
	return filepath.Join(dir, "movie-ranker")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseDur(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
