package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	snap, err := Default()
	if err != nil {
		t.Fatalf("default registry failed to load: %v", err)
	}
	if snap.Version() != DefaultVersion {
		t.Errorf("expected version %q, got %q", DefaultVersion, snap.Version())
	}
	if len(snap.Rules()) == 0 {
		t.Fatal("default registry has no rules")
	}
}

func TestNewSnapshot_Validation(t *testing.T) {
	tests := []struct {
		name    string
		version string
		rules   []Rule
	}{
		{"empty version", "", []Rule{{ID: "a", Match: Match{Literal: "x"}, Weight: 1, Tier: TierReport}}},
		{"missing id", "v1", []Rule{{Match: Match{Literal: "x"}, Weight: 1, Tier: TierReport}}},
		{"duplicate id", "v1", []Rule{
			{ID: "a", Match: Match{Literal: "x"}, Weight: 1, Tier: TierReport},
			{ID: "a", Match: Match{Literal: "y"}, Weight: 1, Tier: TierReport},
		}},
		{"empty matcher", "v1", []Rule{{ID: "a", Weight: 1, Tier: TierReport}}},
		{"both matchers", "v1", []Rule{{ID: "a", Match: Match{Literal: "x", Regex: "y"}, Weight: 1, Tier: TierReport}}},
		{"bad regex", "v1", []Rule{{ID: "a", Match: Match{Regex: "("}, Weight: 1, Tier: TierReport}}},
		{"zero weight", "v1", []Rule{{ID: "a", Match: Match{Literal: "x"}, Tier: TierReport}}},
		{"unknown tier", "v1", []Rule{{ID: "a", Match: Match{Literal: "x"}, Weight: 1, Tier: "purge"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSnapshot(tt.version, tt.rules)
			if err == nil {
				t.Fatal("expected load error, got nil")
			}
			if !errors.Is(err, ErrLoad) {
				t.Errorf("error does not wrap ErrLoad: %v", err)
			}
		})
	}
}

func TestFindAll_Literal(t *testing.T) {
	snap, err := newSnapshot("v1", []Rule{
		{ID: "imp", Match: Match{Literal: "__import__("}, Weight: 10, Tier: TierReport},
	})
	if err != nil {
		t.Fatal(err)
	}

	code := `a = __import__("os")` + "\n" + `b = __import__("sys")`
	spans := snap.FindAll(0, code)
	if len(spans) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(spans))
	}
	for _, span := range spans {
		if code[span[0]:span[1]] != "__import__(" {
			t.Errorf("span covers %q", code[span[0]:span[1]])
		}
	}
}

func TestFindAll_Regex(t *testing.T) {
	snap, _ := Default()
	code := "subprocess.run(['rm', '-rf', '/'])"

	var total int
	for i, rule := range snap.Rules() {
		matches := snap.FindAll(i, code)
		if rule.ID == "shell-invocation" && len(matches) != 1 {
			t.Errorf("shell-invocation: expected 1 match, got %d", len(matches))
		}
		total += len(matches)
	}
	if total == 0 {
		t.Fatal("no rule matched a subprocess call")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `version: "2024.1"
rules:
  - id: no-eval
    match:
      regex: '\beval\s*\('
    weight: 40
    tier: critical
    description: no dynamic eval
  - id: no-goto
    match:
      literal: "goto "
    weight: 5
    tier: report
    description: style
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if snap.Version() != "2024.1" {
		t.Errorf("expected version 2024.1, got %q", snap.Version())
	}
	if len(snap.Rules()) != 2 {
		t.Errorf("expected 2 rules, got %d", len(snap.Rules()))
	}
}

func TestLoad_MissingFileFallsBackToDefault(t *testing.T) {
	snap, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected default fallback, got error: %v", err)
	}
	if snap.Version() != DefaultVersion {
		t.Errorf("expected builtin default, got version %q", snap.Version())
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("version: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrLoad) {
		t.Fatalf("expected ErrLoad, got %v", err)
	}
}
