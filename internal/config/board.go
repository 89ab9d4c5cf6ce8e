package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/Leganyst/production-board/internal/layout"
)

// BoardConfig holds the constants of the chart layout. Values come from an
// optional YAML file, then BOARD_* env overrides.
type BoardConfig struct {
	TimeZone string `yaml:"time_zone"`

	Layout struct {
		LabelWidth   float64 `yaml:"label_width"`    // row label column
		MinPxPerHour float64 `yaml:"min_px_per_hour"`
		LaneHeight   float64 `yaml:"lane_height"`
		BarHeight    float64 `yaml:"bar_height"`
		BaseMargin   float64 `yaml:"base_margin"`
		RowMinHeight float64 `yaml:"row_min_height"`
	} `yaml:"layout"`

	Rows struct {
		Visible      int `yaml:"visible"`       // rows rendered per pass
		DaysBefore   int `yaml:"days_before"`   // rows above the cursor date
		DefaultWidth int `yaml:"default_width"` // container width when none is given
	} `yaml:"rows"`

	Annotation struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"annotation"`

	Drag struct {
		ThresholdPx float64 `yaml:"threshold_px"`
	} `yaml:"drag"`
}

// DefaultBoardConfig returns the layout used by the factory floor screens.
func DefaultBoardConfig() BoardConfig {
	var c BoardConfig
	c.TimeZone = "Asia/Tokyo"
	c.Layout.LabelWidth = 140
	c.Layout.MinPxPerHour = layout.MinPxPerHour
	c.Layout.LaneHeight = 120
	c.Layout.BarHeight = 110
	c.Layout.BaseMargin = 10
	c.Layout.RowMinHeight = 140
	c.Rows.Visible = 6
	c.Rows.DaysBefore = 1
	c.Rows.DefaultWidth = 1580
	c.Annotation.Width = layout.DefaultAnnotationWidth
	c.Annotation.Height = layout.DefaultAnnotationHeight
	c.Drag.ThresholdPx = 5
	return c
}

// LoadBoardConfig reads path (when it exists) over the defaults and applies
// env overrides. An empty path skips the file.
func LoadBoardConfig(path string) (BoardConfig, error) {
	cfg := DefaultBoardConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return BoardConfig{}, fmt.Errorf("read board config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return BoardConfig{}, fmt.Errorf("parse board config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return BoardConfig{}, err
	}
	return cfg, nil
}

func (c *BoardConfig) applyEnvOverrides() {
	c.TimeZone = getEnv("BOARD_TIMEZONE", c.TimeZone)
	c.Layout.MinPxPerHour = getEnvFloat("BOARD_MIN_PX_PER_HOUR", c.Layout.MinPxPerHour)
	c.Layout.LaneHeight = getEnvFloat("BOARD_LANE_HEIGHT", c.Layout.LaneHeight)
	c.Rows.Visible = getEnvInt("BOARD_VISIBLE_ROWS", c.Rows.Visible)
	c.Rows.DaysBefore = getEnvInt("BOARD_DAYS_BEFORE", c.Rows.DaysBefore)
}

// Validate rejects layouts that cannot be drawn.
func (c BoardConfig) Validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid board config: time zone %q: %w", c.TimeZone, err)
	}
	if c.Layout.LaneHeight <= 0 || c.Layout.BarHeight <= 0 {
		return fmt.Errorf("invalid board config: lane and bar height must be positive")
	}
	if c.Layout.BarHeight > c.Layout.LaneHeight {
		return fmt.Errorf("invalid board config: bar height %v exceeds lane height %v", c.Layout.BarHeight, c.Layout.LaneHeight)
	}
	if c.Rows.Visible < 1 {
		return fmt.Errorf("invalid board config: at least one visible row is required")
	}
	if c.Rows.DaysBefore < 0 {
		return fmt.Errorf("invalid board config: days_before must not be negative")
	}
	return nil
}

// Location resolves the board time zone. Validate has already checked it.
func (c BoardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Save writes the config as YAML.
func (c BoardConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal board config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
