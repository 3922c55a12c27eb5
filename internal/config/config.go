// Package config loads the optional .linefix.yaml workspace configuration.
// Every field has a default; command-line flags override whatever the file
// sets.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from yaml strings like "60s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the workspace configuration.
type Config struct {
	// Model is the local generative model passed to ollama.
	Model string `yaml:"model"`
	// Samples is how many completions to draw per prompt.
	Samples int `yaml:"samples"`
	// Workers caps concurrent generations.
	Workers int `yaml:"workers"`
	// Timeout bounds one model invocation.
	Timeout Duration `yaml:"timeout"`
	// Retries is how many times a failed invocation is retried.
	Retries int `yaml:"retries"`

	// CorpusDir holds the mined bug corpus (projects/<name>/bugs/<id>).
	CorpusDir string `yaml:"corpus_dir"`
	// WorkspaceDir is the root for data/, heuristics/, outputs/, results/.
	WorkspaceDir string `yaml:"workspace_dir"`
	// StorePath is the SQLite index location.
	StorePath string `yaml:"store_path"`

	// GitHubToken authenticates heuristic extraction; empty means
	// unauthenticated requests.
	GitHubToken string `yaml:"github_token"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Model:        "codellama",
		Samples:      3,
		Workers:      4,
		Timeout:      Duration(60 * time.Second),
		Retries:      3,
		CorpusDir:    ".",
		WorkspaceDir: ".",
		StorePath:    ".linefix/index.db",
	}
}

// Load reads path and overlays it on the defaults. A missing file is not an
// error: the defaults apply. GITHUB_TOKEN in the environment wins over the
// file, so the token never has to live on disk.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		cfg.GitHubToken = tok
	}
	return cfg, nil
}
