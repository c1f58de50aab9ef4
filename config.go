package cms

import (
	"errors"
	"strings"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

var (
	ErrLoggingProviderUnknown = errors.New("cms: unknown logging provider")
	ErrCacheRequiresDatabase  = errors.New("cms: repository cache requires a database")
)

// Logging provider names accepted by Config.
const (
	LoggingProviderNoop     = "noop"
	LoggingProviderGoLogger = "gologger"
)

// Config wires the module runtime. A nil DB selects the in-memory
// repositories, which is the fixture and scaffolding mode.
type Config struct {
	DB      *bun.DB
	Logging LoggingConfig
	Cache   CacheConfig
}

// LoggingConfig selects and tunes the logging provider.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
}

// CacheConfig enables read-through caching on the bun repositories. Both
// fields must be set together.
type CacheConfig struct {
	Service       cache.CacheService
	KeySerializer cache.KeySerializer
}

func (c CacheConfig) enabled() bool {
	return c.Service != nil && c.KeySerializer != nil
}

// DefaultConfig returns a memory-backed, silent configuration.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Provider: LoggingProviderNoop},
	}
}

// Validate checks the configuration for contradictions before wiring.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Provider)) {
	case "", LoggingProviderNoop, LoggingProviderGoLogger:
	default:
		return ErrLoggingProviderUnknown
	}
	if c.Cache.enabled() && c.DB == nil {
		return ErrCacheRequiresDatabase
	}
	return nil
}
