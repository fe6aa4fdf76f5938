package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config carries every tunable of the extraction pipeline. All heuristic
// variants that exist in the wild (anchor detection, total selection) are
// explicit named strategies here rather than hardcoded choices.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Extract ExtractConfig `mapstructure:"extract"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// EngineConfig holds OCR collaborator settings passed through to tesseract
// unchanged; the core never reinterprets them.
type EngineConfig struct {
	Language string `mapstructure:"language"`
	// Whitelist restricts recognition to the trading-interface character set.
	Whitelist string `mapstructure:"whitelist"`
	// PageSegMode 6 = single uniform block of text.
	PageSegMode int `mapstructure:"page_seg_mode"`
	// RecognitionTimeoutSec bounds one recognition call. Unset (0) takes the
	// default; -1 disables the bound entirely.
	RecognitionTimeoutSec int `mapstructure:"recognition_timeout_sec"`
}

type ExtractConfig struct {
	// AnchorStrategy is anchor_keyword or anchor_percent.
	AnchorStrategy string `mapstructure:"anchor_strategy"`
	// TotalSelection is total_nearest or total_largest.
	TotalSelection string `mapstructure:"total_selection"`
	// RowToleranceScale multiplies the anchor token height to form the
	// vertical row band. The neighborhood pass widens it by NeighborhoodScale.
	RowToleranceScale float64 `mapstructure:"row_tolerance_scale"`
	NeighborhoodScale float64 `mapstructure:"neighborhood_scale"`
	// Confidence floors: anchors need more confidence than supporting
	// fields because a false anchor seeds an entire spurious trade.
	MinRowConfidence    float64 `mapstructure:"min_row_confidence"`
	MinAnchorConfidence float64 `mapstructure:"min_anchor_confidence"`
}

// Load reads a yaml config file, applies defaults for unset keys and
// validates strategy names and bounds.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
