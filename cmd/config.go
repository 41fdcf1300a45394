package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/etnz/cryptofolio"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variables overriding the configuration file.
const (
	EnvQuoteURL   = "CRYPTOFOLIO_QUOTE_URL"
	EnvQuoteToken = "CRYPTOFOLIO_QUOTE_TOKEN"
	EnvDataFile   = "CRYPTOFOLIO_DATA_FILE"
)

const (
	defaultDir      = "~/.cryptofolio"
	defaultConfig   = defaultDir + "/cryptofolio.toml"
	defaultDataFile = defaultDir + "/folio.jsonl"
	defaultTimeout  = 10 * time.Second
)

// defaultConfigContent is written when no configuration file exists yet.
const defaultConfigContent = `# cryptofolio configuration

[main]
# Where positions are stored. The extension selects the format:
# .jsonl (default), .msgpack or .db (SQLite).
data_file = "` + defaultDataFile + `"

[quote]
# Base URL of the quote service, prices are read from <url>/<ticker>/price?token=<token>
url = ""
token = ""
# JSONPath of the price in the response.
price_path = "` + cryptofolio.DefaultPricePath + `"
# Cache quote responses on disk, "0s" disables the cache.
cache_ttl = "0s"
timeout = "10s"
`

// Config is the user configuration, loaded once and passed down to commands.
type Config struct {
	Main struct {
		DataFile string `toml:"data_file"`
	} `toml:"main"`

	Quote struct {
		URL       string        `toml:"url"`
		Token     string        `toml:"token"`
		PricePath string        `toml:"price_path"`
		CacheTTL  time.Duration `toml:"cache_ttl"`
		Timeout   time.Duration `toml:"timeout"`
	} `toml:"quote"`
}

// DefaultConfigPath returns the expanded default configuration file path.
func DefaultConfigPath() string { return expandHome(defaultConfig) }

// LoadConfig reads the configuration file at path, creating it with default
// values if it does not exist yet. A .env file in the working directory and
// the CRYPTOFOLIO_* environment variables override the file content.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	path = expandHome(path)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := bootstrapConfig(path); err != nil {
			return nil, err
		}
	}
	return ReadConfig(path)
}

// ReadConfig reads an existing configuration file, applies the environment
// overrides and the defaults, and validates the result.
func ReadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(expandHome(path), &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

// bootstrapConfig writes the default configuration, and its directory.
func bootstrapConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0600); err != nil {
		return fmt.Errorf("cannot create default config %q: %w", path, err)
	}
	log.Info().Str("path", path).Msg("created default configuration")

	// The default data file lives next to the default config.
	if path == DefaultConfigPath() {
		if err := os.MkdirAll(filepath.Dir(expandHome(defaultDataFile)), 0755); err != nil {
			return fmt.Errorf("cannot create data directory: %w", err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvQuoteURL); v != "" {
		cfg.Quote.URL = v
	}
	if v := os.Getenv(EnvQuoteToken); v != "" {
		cfg.Quote.Token = v
	}
	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.Main.DataFile = v
	}
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Main.DataFile) == "" {
		cfg.Main.DataFile = defaultDataFile
	}
	cfg.Main.DataFile = expandHome(cfg.Main.DataFile)
	if cfg.Quote.PricePath == "" {
		cfg.Quote.PricePath = cryptofolio.DefaultPricePath
	}
	if cfg.Quote.Timeout == 0 {
		cfg.Quote.Timeout = defaultTimeout
	}
}

func validate(cfg *Config) error {
	if cfg.Quote.Timeout < 0 {
		return errors.New("quote.timeout is negative")
	}
	if cfg.Quote.CacheTTL < 0 {
		return errors.New("quote.cache_ttl is negative")
	}
	return cryptofolio.ValidatePricePath(cfg.Quote.PricePath)
}

// Quoter returns the price lookup described by the configuration.
func (cfg *Config) Quoter() (*cryptofolio.QuoteService, error) {
	if strings.TrimSpace(cfg.Quote.URL) == "" {
		return nil, errors.New("no quote service configured: set [quote] url in the config file or " + EnvQuoteURL)
	}
	s := cryptofolio.NewQuoteService(cfg.Quote.URL, cfg.Quote.Token)
	s.PricePath = cfg.Quote.PricePath
	s.Client = cryptofolio.NewHTTPClient(cfg.Quote.Timeout, cfg.Quote.CacheTTL, cryptofolio.DefaultCacheDir())
	return s, nil
}

// expandHome replaces a leading "~" with the user home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
