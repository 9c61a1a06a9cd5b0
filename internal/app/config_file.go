package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to flags and env vars.
type FileConfig struct {
	Input   string   `yaml:"input" json:"input"`
	Output  string   `yaml:"output" json:"output"`
	Preview string   `yaml:"preview" json:"preview"`
	Formats []string `yaml:"formats" json:"formats"`

	Extract struct {
		URL      string        `yaml:"url" json:"url"`
		UA       string        `yaml:"ua" json:"ua"`
		Attempts int           `yaml:"attempts" json:"attempts"`
		Timeout  time.Duration `yaml:"timeout" json:"timeout"`
		File     string        `yaml:"file" json:"file"`
	} `yaml:"extract" json:"extract"`

	Cache struct {
		Dir    string        `yaml:"dir" json:"dir"`
		MaxAge time.Duration `yaml:"maxAge" json:"maxAge"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for fields still
// at their flag defaults, so an explicit flag always wins over the file.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const (
		outputDefault = "out"
		uaDefault     = "docsift/1.0 (+https://github.com/docpane/docsift)"
		attemptsDef   = 3
	)

	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.OutputDir == "" || cfg.OutputDir == outputDefault) && fc.Output != "" {
		cfg.OutputDir = fc.Output
	}
	if cfg.PreviewPath == "" && fc.Preview != "" {
		cfg.PreviewPath = fc.Preview
	}
	if len(cfg.Formats) == 0 && len(fc.Formats) > 0 {
		cfg.Formats = append([]string{}, fc.Formats...)
	}
	if cfg.ExtractURL == "" && fc.Extract.URL != "" {
		cfg.ExtractURL = fc.Extract.URL
	}
	if (cfg.ExtractUA == "" || cfg.ExtractUA == uaDefault) && fc.Extract.UA != "" {
		cfg.ExtractUA = fc.Extract.UA
	}
	if (cfg.MaxAttempts == 0 || cfg.MaxAttempts == attemptsDef) && fc.Extract.Attempts > 0 {
		cfg.MaxAttempts = fc.Extract.Attempts
	}
	if cfg.Timeout == 0 && fc.Extract.Timeout > 0 {
		cfg.Timeout = fc.Extract.Timeout
	}
	if cfg.ModelFile == "" && fc.Extract.File != "" {
		cfg.ModelFile = fc.Extract.File
	}
	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return errors.New("config: output directory is required")
	}
	if cfg.ModelFile == "" && strings.TrimSpace(cfg.ExtractURL) == "" {
		return errors.New("config: extract.url is required (or set EXTRACT_URL, or use a model file)")
	}
	if len(cfg.Formats) == 0 {
		return errors.New("config: at least one export format is required")
	}
	if cfg.MaxAttempts < 0 {
		return errors.New("config: negative attempt count is not allowed")
	}
	return nil
}
