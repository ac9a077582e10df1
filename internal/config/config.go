package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigDir = ".genguard"
	DefaultRulesFile = "rules.yaml"
	DefaultCacheDir  = "cache"
	DefaultLogFile   = "audit.jsonl"

	DefaultBackend  = "ollama"
	DefaultEndpoint = "http://localhost:11434"
	DefaultModel    = "llama2"
	DefaultTimeout  = 30 * time.Second
)

// Gateway holds generation backend settings.
type Gateway struct {
	Backend  string // "ollama" or "gemini"
	Endpoint string // ollama only
	Model    string
	Timeout  time.Duration
}

type Config struct {
	ConfigDir string
	RulesPath string
	CacheDir  string
	LogPath   string
	Gateway   Gateway
}

// Load resolves paths under ~/.genguard and applies environment
// overrides. A .env file in the working directory is honored when
// present (GENGUARD_BACKEND, GENGUARD_MODEL, GENGUARD_TIMEOUT,
// OLLAMA_HOST, plus the API key variables the gemini client reads).
func Load(rulesPath, logPath string) (*Config, error) {
	_ = godotenv.Load()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := ensureDir(configDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		ConfigDir: configDir,
		RulesPath: rulesPath,
		CacheDir:  filepath.Join(configDir, DefaultCacheDir),
		LogPath:   logPath,
		Gateway: Gateway{
			Backend:  envOr("GENGUARD_BACKEND", DefaultBackend),
			Endpoint: envOr("OLLAMA_HOST", DefaultEndpoint),
			Model:    envOr("GENGUARD_MODEL", DefaultModel),
			Timeout:  DefaultTimeout,
		},
	}

	if cfg.RulesPath == "" {
		cfg.RulesPath = filepath.Join(configDir, DefaultRulesFile)
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(configDir, DefaultLogFile)
	}
	if v := os.Getenv("GENGUARD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Gateway.Timeout = d
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
