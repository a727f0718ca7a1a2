// Package config loads the YAML configuration file and maps it onto the
// per-package tuning structs. Every field is optional; omitted fields
// take the package defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/moghammed/epstein-universal-unredaction/classify"
	"github.com/moghammed/epstein-universal-unredaction/logging"
	"github.com/moghammed/epstein-universal-unredaction/match"
	"github.com/moghammed/epstein-universal-unredaction/redact"
	"github.com/moghammed/epstein-universal-unredaction/segment"
	"github.com/moghammed/epstein-universal-unredaction/typo"
)

// Config is the full configuration surface of the pipeline.
type Config struct {
	// Segment tunes text block segmentation.
	Segment SegmentConfig `yaml:"segment"`

	// Redact tunes redaction detection and attribution.
	Redact RedactConfig `yaml:"redact"`

	// Typo tunes typographic profiling and gap estimation.
	Typo TypoConfig `yaml:"typo"`

	// Classify tunes semantic classification.
	Classify ClassifyConfig `yaml:"classify"`

	// Match tunes candidate ranking.
	Match MatchConfig `yaml:"match"`

	// Pipeline tunes execution.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// DictionaryDir is the directory of candidate dictionaries.
	DictionaryDir string `yaml:"dictionary_dir"`

	// Logging configures log output.
	Logging logging.Config `yaml:"logging"`
}

// SegmentConfig mirrors segment.Config with YAML tags. Zero values mean
// "use the default".
type SegmentConfig struct {
	LineOverlapFraction     float64 `yaml:"line_overlap_fraction"`
	LineToleranceFactor     float64 `yaml:"line_tolerance_factor"`
	BlockGapMultiplier      float64 `yaml:"block_gap_multiplier"`
	MinColumnGapMM          float64 `yaml:"min_column_gap_mm"`
	MinColumnGapHeightRatio float64 `yaml:"min_column_gap_height_ratio"`
	SpanningThreshold       float64 `yaml:"spanning_threshold"`
	MaxColumns              int     `yaml:"max_columns"`
}

// RedactConfig mirrors redact.Config.
type RedactConfig struct {
	MinAreaMM2        float64 `yaml:"min_area_mm2"`
	MaxLuminance      float64 `yaml:"max_luminance"`
	MinOpacity        float64 `yaml:"min_opacity"`
	MinRectangularity float64 `yaml:"min_rectangularity"`
	MinBlockOverlap   float64 `yaml:"min_block_overlap"`
	ContextTokens     int     `yaml:"context_tokens"`
}

// TypoConfig mirrors typo.Config.
type TypoConfig struct {
	TrackingTolerance float64 `yaml:"tracking_tolerance"`
	DefaultSizePt     float64 `yaml:"default_size_pt"`
}

// ClassifyConfig mirrors classify.Config.
type ClassifyConfig struct {
	PlausibilityBoost float64 `yaml:"plausibility_boost"`
	WideBoundPenalty  float64 `yaml:"wide_bound_penalty"`
	WideBoundSpread   int     `yaml:"wide_bound_spread"`
}

// MatchConfig mirrors match.Config.
type MatchConfig struct {
	SigmaMM float64 `yaml:"sigma_mm"`
	TopN    int     `yaml:"top_n"`
}

// PipelineConfig tunes execution of the pipeline itself.
type PipelineConfig struct {
	// Workers bounds concurrent candidate ranking (default: GOMAXPROCS).
	Workers int `yaml:"workers"`

	// MatchDeadlineMS caps the wall time of the ranking stage, in
	// milliseconds. Zero means no deadline.
	MatchDeadlineMS int `yaml:"match_deadline_ms"`
}

// Load reads the YAML file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes. Unknown keys are rejected so that a
// misspelt threshold fails loudly instead of silently using the default.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// SegmentConfig resolves to a segment.Config, filling defaults.
func (c *Config) SegmentConfig() segment.Config {
	out := segment.DefaultConfig()
	s := c.Segment
	if s.LineOverlapFraction > 0 {
		out.LineOverlapFraction = s.LineOverlapFraction
	}
	if s.LineToleranceFactor > 0 {
		out.LineToleranceFactor = s.LineToleranceFactor
	}
	if s.BlockGapMultiplier > 0 {
		out.BlockGapMultiplier = s.BlockGapMultiplier
	}
	if s.MinColumnGapMM > 0 {
		out.MinColumnGapMM = s.MinColumnGapMM
	}
	if s.MinColumnGapHeightRatio > 0 {
		out.MinColumnGapHeightRatio = s.MinColumnGapHeightRatio
	}
	if s.SpanningThreshold > 0 {
		out.SpanningThreshold = s.SpanningThreshold
	}
	if s.MaxColumns > 0 {
		out.MaxColumns = s.MaxColumns
	}
	return out
}

// RedactConfig resolves to a redact.Config, filling defaults.
func (c *Config) RedactConfig() redact.Config {
	out := redact.DefaultConfig()
	r := c.Redact
	if r.MinAreaMM2 > 0 {
		out.MinAreaMM2 = r.MinAreaMM2
	}
	if r.MaxLuminance > 0 {
		out.MaxLuminance = r.MaxLuminance
	}
	if r.MinOpacity > 0 {
		out.MinOpacity = r.MinOpacity
	}
	if r.MinRectangularity > 0 {
		out.MinRectangularity = r.MinRectangularity
	}
	if r.MinBlockOverlap > 0 {
		out.MinBlockOverlap = r.MinBlockOverlap
	}
	if r.ContextTokens > 0 {
		out.ContextTokens = r.ContextTokens
	}
	return out
}

// TypoConfig resolves to a typo.Config, filling defaults.
func (c *Config) TypoConfig() typo.Config {
	out := typo.DefaultConfig()
	if c.Typo.TrackingTolerance > 0 {
		out.TrackingTolerance = c.Typo.TrackingTolerance
	}
	if c.Typo.DefaultSizePt > 0 {
		out.DefaultSizePt = c.Typo.DefaultSizePt
	}
	return out
}

// ClassifyConfig resolves to a classify.Config, filling defaults.
func (c *Config) ClassifyConfig() classify.Config {
	out := classify.DefaultConfig()
	if c.Classify.PlausibilityBoost > 0 {
		out.PlausibilityBoost = c.Classify.PlausibilityBoost
	}
	if c.Classify.WideBoundPenalty > 0 {
		out.WideBoundPenalty = c.Classify.WideBoundPenalty
	}
	if c.Classify.WideBoundSpread > 0 {
		out.WideBoundSpread = c.Classify.WideBoundSpread
	}
	return out
}

// MatchConfig resolves to a match.Config, filling defaults.
func (c *Config) MatchConfig() match.Config {
	out := match.DefaultConfig()
	if c.Match.SigmaMM > 0 {
		out.SigmaMM = c.Match.SigmaMM
	}
	if c.Match.TopN > 0 {
		out.TopN = c.Match.TopN
	}
	return out
}

// Workers resolves the ranking worker count, filling the default.
func (c *Config) Workers() int {
	if c.Pipeline.Workers > 0 {
		return c.Pipeline.Workers
	}
	return runtime.GOMAXPROCS(0)
}
