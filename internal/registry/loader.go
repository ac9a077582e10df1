package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk YAML shape of a registry definition.
type rulesFile struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Load reads a registry definition from path. A missing file falls back
// to the built-in default rule set; anything else malformed is fatal.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrLoad, path, err)
	}

	return newSnapshot(file.Version, file.Rules)
}

// DefaultVersion is the version recorded by the built-in rule set.
const DefaultVersion = "builtin-1"

// Default returns the built-in registry snapshot used when no rules
// file exists. The rule set mirrors the dangerous constructs the agent
// screens generated code for: dynamic evaluation, shell invocation,
// destructive filesystem operations, and permission widening.
func Default() (*Snapshot, error) {
	return newSnapshot(DefaultVersion, []Rule{
		{
			ID:          "shell-invocation",
			Match:       Match{Regex: `(?m)\b(os\.system|subprocess\.(run|call|check_output|Popen)|child_process\.(exec|spawn)|exec\.Command)\s*\(`},
			Weight:      40,
			Tier:        TierCritical,
			Description: "Arbitrary command execution via a shell or process API.",
		},
		{
			ID:          "dynamic-eval",
			Match:       Match{Regex: `\b(eval|exec)\s*\(`},
			Weight:      40,
			Tier:        TierCritical,
			Description: "Dynamic code evaluation of runtime-constructed strings.",
		},
		{
			ID:          "recursive-delete",
			Match:       Match{Regex: `(?i)\brm\s+-\w*r\w*\s|\bshutil\.rmtree\s*\(`},
			Weight:      40,
			Tier:        TierCritical,
			Description: "Recursive filesystem delete.",
		},
		{
			ID:          "pipe-to-shell",
			Match:       Match{Regex: `(?i)\b(curl|wget)\b[^\n]*\|\s*(sh|bash|zsh)\b`},
			Weight:      40,
			Tier:        TierCritical,
			Description: "Downloads and executes a remote script without inspection.",
		},
		{
			ID:          "dynamic-import",
			Match:       Match{Literal: "__import__("},
			Weight:      25,
			Tier:        TierStrip,
			Description: "Dynamic module import bypasses static import screening.",
		},
		{
			ID:          "permission-widening",
			Match:       Match{Regex: `(?i)\bchmod\s+(-R\s+)?0?777\b|\bos\.chmod\s*\([^)]*0o?777`},
			Weight:      30,
			Tier:        TierReport,
			Description: "World-writable permission change.",
		},
		{
			ID:          "hardcoded-credential",
			Match:       Match{Regex: `(?i)(api[_-]?key|secret[_-]?key|password|auth[_-]?token)\s*[=:]\s*["'][^"'\n]{8,}["']`},
			Weight:      20,
			Tier:        TierStrip,
			Description: "Credential literal embedded in generated code.",
		},
		{
			ID:          "raw-socket",
			Match:       Match{Regex: `\bsocket\.socket\s*\(|\bnet\.Dial\s*\(`},
			Weight:      15,
			Tier:        TierReport,
			Description: "Raw network socket in generated code; review the destination.",
		},
	})
}
