package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gzhole/genguard/internal/agent"
	"github.com/gzhole/genguard/internal/cache"
	"github.com/gzhole/genguard/internal/config"
	"github.com/gzhole/genguard/internal/gateway"
	"github.com/gzhole/genguard/internal/logger"
	"github.com/gzhole/genguard/internal/registry"
)

var (
	rulesPath string
	logPath   string
)

var rootCmd = &cobra.Command{
	Use:   "genguard",
	Short: "genguard - local assistant that generates and screens code",
	Long: `genguard turns a natural-language request into generated source code,
screens that code against a versioned set of dangerous-pattern rules,
assigns it a security score, and caches accepted results so repeated
requests skip regeneration.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to pattern rules YAML (default: ~/.genguard/rules.yaml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "Path to audit log file (default: ~/.genguard/audit.jsonl)")
}

func Execute() error {
	return rootCmd.Execute()
}

// runtime bundles the shared process-wide state: one loaded registry
// snapshot, one cache store, one audit log. Initialized explicitly at
// command start and flushed on close; nothing lives in ambient globals.
type runtime struct {
	cfg   *config.Config
	snap  *registry.Snapshot
	store *cache.Store
	agent *agent.Agent
	audit *logger.AuditLogger
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(rulesPath, logPath)
	if err != nil {
		return nil, err
	}

	snap, err := registry.Load(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	audit, err := logger.New(cfg.LogPath)
	if err != nil {
		return nil, err
	}

	gen, err := newGenerator(cmd, cfg)
	if err != nil {
		audit.Close()
		return nil, err
	}

	return &runtime{
		cfg:   cfg,
		snap:  snap,
		store: store,
		agent: agent.New(snap, store, gen, audit, cfg.Gateway.Timeout),
		audit: audit,
	}, nil
}

func newGenerator(cmd *cobra.Command, cfg *config.Config) (gateway.Generator, error) {
	switch cfg.Gateway.Backend {
	case "ollama":
		return gateway.NewOllamaClient(cfg.Gateway.Endpoint, cfg.Gateway.Model), nil
	case "gemini":
		return gateway.NewGeminiClient(cmd.Context(), cfg.Gateway.Model)
	default:
		return nil, fmt.Errorf("unknown gateway backend %q", cfg.Gateway.Backend)
	}
}

func (r *runtime) close() {
	if r.audit != nil {
		r.audit.Close()
	}
}
