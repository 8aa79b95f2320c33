// Package config loads and validates the command line configuration.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"github.com/gompdf/gomlayout/internal/pagination"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	PageConfig struct {
		Size        string    `yaml:"size"`
		Orientation string    `yaml:"orientation" validate:"oneof=portrait landscape"`
		Width       float64   `yaml:"width" validate:"gte=0"`
		Height      float64   `yaml:"height" validate:"gte=0"`
		Padding     []float64 `yaml:"padding" validate:"omitempty,len=4,dive,gte=0"`
	}

	LayoutConfig struct {
		MinCellHeight  float64 `yaml:"min_cell_height" validate:"gte=0"`
		Concurrency    int     `yaml:"concurrency" validate:"min=1,max=256"`
		StaticBoundary string  `yaml:"static_boundary" validate:"oneof=footers all"`
		Strict         bool    `yaml:"strict"`
	}

	TextConfig struct {
		Measurer string `yaml:"measurer" validate:"oneof=core sfnt"`
		FontPath string `yaml:"font"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Page    PageConfig    `yaml:"page"`
		Layout  LayoutConfig  `yaml:"layout"`
		Text    TextConfig    `yaml:"text"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// Dimensions resolves the configured page size in mm. Zero values keep the
// template's own size.
func (p PageConfig) Dimensions() (float64, float64, error) {
	var ps pagination.PageSize
	if p.Size != "" {
		var err error
		if ps, err = pagination.LookupPageSize(p.Size); err != nil {
			return 0, 0, err
		}
	}
	if p.Width > 0 {
		ps.Width = p.Width
	}
	if p.Height > 0 {
		ps.Height = p.Height
	}
	return ps.Width, ps.Height, nil
}

// Boundary returns the configured static boundary mode.
func (l LayoutConfig) Boundary() pagination.StaticBoundary {
	// validated already
	b, _ := pagination.ParseStaticBoundary(l.StaticBoundary)
	return b
}

// checkConfig covers what struct tags cannot express.
func checkConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Page.Size != "" {
		if _, err := pagination.LookupPageSize(cfg.Page.Size); err != nil {
			sl.ReportError(cfg.Page.Size, "Size", "size", "page_size", "")
		}
	}
	if cfg.Text.Measurer == "core" && cfg.Text.FontPath != "" {
		sl.ReportError(cfg.Text.FontPath, "FontPath", "font", "required_sfnt", "")
	}
	if file := cfg.Logging.FileLogger; file.Level != "none" && file.Destination == "" {
		sl.ReportError(file.Destination, "Destination", "destination", "required", "")
	}
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the embedded defaults and performs
// validation. An empty path yields the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}

	if len(path) > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}

	if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Prepare returns the embedded default configuration.
func Prepare() []byte {
	return bytes.Clone(defaultConfig)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
