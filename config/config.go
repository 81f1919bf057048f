// Package config holds the tunable settings of a segmentation run. Settings
// come from Defaults, an optional JSON file and finally command line flags,
// later sources overriding earlier ones.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andareed/markwrite/pendata"
)

// ErrConfig is returned for unreadable or invalid settings.
var ErrConfig = errors.New("invalid config")

type Config struct {
	Strokes Strokes `json:"strokes"`

	// TrimZeroPressure is a pointer so an explicit false in JSON can override
	// the default.
	TrimZeroPressure *bool `json:"trim_zero_pressure,omitempty"`

	Logging Logging `json:"logging"`
	Report  Report  `json:"report"`
}

// Strokes tunes velocity-minimum stroke detection.
type Strokes struct {
	Neighborhood int `json:"neighborhood"`

	// MinDuration is a pointer so an explicit 0 turns minima merging off.
	MinDuration *float64 `json:"min_duration,omitempty"`
}

type Logging struct {
	File string `json:"file"`
}

// Report selects report output. Empty paths disable a sink.
type Report struct {
	Segments string `json:"segments"`
	Samples  string `json:"samples"`
	SQLite   string `json:"sqlite"`
}

// Defaults returns the settings used when nothing else is given.
func Defaults() Config {
	d := pendata.DefaultOptions()
	minDur := d.StrokeMinDuration
	trim := true
	return Config{
		Strokes: Strokes{
			Neighborhood: d.StrokeNeighborhood,
			MinDuration:  &minDur,
		},
		TrimZeroPressure: &trim,
	}
}

// LoadJSON parses a Config from raw JSON, or from path when raw is empty.
// Unknown fields are rejected.
func LoadJSON(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		defer f.Close()
		r = f
	default:
		return cfg, fmt.Errorf("%w: no config source provided", ErrConfig)
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfig, sourceName(path), err)
	}
	return cfg, nil
}

func sourceName(path string) string {
	if path == "" {
		return "inline"
	}
	return path
}

// Merge overlays over onto base. Zero values in over leave base untouched.
func Merge(base, over Config) Config {
	out := base
	if over.Strokes.Neighborhood != 0 {
		out.Strokes.Neighborhood = over.Strokes.Neighborhood
	}
	if over.Strokes.MinDuration != nil {
		v := *over.Strokes.MinDuration
		out.Strokes.MinDuration = &v
	}
	if over.TrimZeroPressure != nil {
		v := *over.TrimZeroPressure
		out.TrimZeroPressure = &v
	}
	if s := strings.TrimSpace(over.Logging.File); s != "" {
		out.Logging.File = s
	}
	if over.Report.Segments != "" {
		out.Report.Segments = over.Report.Segments
	}
	if over.Report.Samples != "" {
		out.Report.Samples = over.Report.Samples
	}
	if over.Report.SQLite != "" {
		out.Report.SQLite = over.Report.SQLite
	}
	return out
}

// Validate checks the values a run depends on.
func Validate(cfg Config) error {
	var errs []error
	if cfg.Strokes.Neighborhood < 1 {
		errs = append(errs, fmt.Errorf("strokes.neighborhood must be >= 1, got %d", cfg.Strokes.Neighborhood))
	}
	if md := cfg.Strokes.MinDuration; md != nil && *md < 0 {
		errs = append(errs, fmt.Errorf("strokes.min_duration must be >= 0, got %g", *md))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return nil
}

// Trim reports whether pen-up samples are trimmed from selections.
func (c Config) Trim() bool {
	return c.TrimZeroPressure == nil || *c.TrimZeroPressure
}

// SeriesOptions converts the stroke settings for pendata.New.
func (c Config) SeriesOptions() pendata.Options {
	opts := pendata.DefaultOptions()
	opts.StrokeNeighborhood = c.Strokes.Neighborhood
	if c.Strokes.MinDuration != nil {
		opts.StrokeMinDuration = *c.Strokes.MinDuration
	}
	return opts
}
