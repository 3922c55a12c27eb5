package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".linefix.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.Model != def.Model || cfg.Samples != def.Samples || cfg.Workers != def.Workers {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".linefix.yaml")
	content := `
model: deepseek-coder
samples: 5
timeout: 90s
workspace_dir: /tmp/ws
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "deepseek-coder" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.Samples != 5 {
		t.Errorf("samples = %d", cfg.Samples)
	}
	if cfg.Timeout.Std() != 90*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout.Std())
	}
	// untouched fields keep defaults
	if cfg.Workers != Default().Workers {
		t.Errorf("workers = %d, want default", cfg.Workers)
	}
}

func TestLoadEnvTokenWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".linefix.yaml")
	if err := os.WriteFile(path, []byte("github_token: from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GITHUB_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GitHubToken != "from-env" {
		t.Errorf("token = %q, want env value", cfg.GitHubToken)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".linefix.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
