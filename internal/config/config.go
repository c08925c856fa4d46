// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"terradep/internal/registry"
)

type Config struct {
	ScanPaths []string  `toml:"scan_paths"`
	Exclude   Exclude   `toml:"exclude"`
	Analysis  Analysis  `toml:"analysis"`
	Output    Output    `toml:"output"`
	Watch     Watch     `toml:"watch"`
	History   History   `toml:"history"`
	Telemetry Telemetry `toml:"telemetry"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Analysis struct {
	// HighImpactThreshold is exceeded when a module's impact set is strictly
	// larger.
	HighImpactThreshold int `toml:"high_impact_threshold"`
	// MaxPathsPerPair caps simple-path enumeration per ordered module pair;
	// zero means unbounded.
	MaxPathsPerPair int              `toml:"max_paths_per_pair"`
	Weights         registry.Weights `toml:"weights"`
}

type Output struct {
	JSON string `toml:"json"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRunsPerMinute throttles full re-analysis during change storms.
	MaxRunsPerMinute int `toml:"max_runs_per_minute"`
}

type History struct {
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Telemetry struct {
	Enabled      bool   `toml:"enabled"`
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Default() *Config {
	return &Config{
		ScanPaths: []string{"."},
		Exclude: Exclude{
			Dirs: []string{".git", ".terraform", ".terragrunt-cache", "node_modules"},
		},
		Analysis: Analysis{
			HighImpactThreshold: 3,
			MaxPathsPerPair:     1000,
			Weights:             registry.DefaultWeights(),
		},
		Watch: Watch{
			Debounce:         500 * time.Millisecond,
			MaxRunsPerMinute: 30,
		},
		Telemetry: Telemetry{
			MetricsAddr: ":9090",
		},
	}
}

// Load reads a TOML config file and fills unset fields with defaults. A
// missing file is not an error; the defaults apply as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if len(cfg.ScanPaths) == 0 {
		cfg.ScanPaths = []string{"."}
	}
	if cfg.Analysis.HighImpactThreshold == 0 {
		cfg.Analysis.HighImpactThreshold = 3
	}
	if cfg.Analysis.Weights == (registry.Weights{}) {
		cfg.Analysis.Weights = registry.DefaultWeights()
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerMinute == 0 {
		cfg.Watch.MaxRunsPerMinute = 30
	}

	return cfg, nil
}
