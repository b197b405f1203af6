package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/render"
)

const (
	DefaultRows     = 15
	DefaultCols     = 20
	DefaultCellSize = render.DefaultCellSize
	DefaultDataDir  = ".backlight"
	DefaultTextSize = "medium"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Rows             int          `yaml:"rows"`
	Cols             int          `yaml:"cols"`
	CellSize         int          `yaml:"cell_size"`
	Colors           ColorsConfig `yaml:"colors"`
	DataDir          string       `yaml:"data_dir"`
	MarqueeSpeed     int          `yaml:"marquee_speed"`
	RotateSpeed      int          `yaml:"rotate_speed"`
	RevealIntervalMs int          `yaml:"reveal_interval_ms"`
	FadePeriodMs     int          `yaml:"fade_period_ms"`
	TextSize         string       `yaml:"text_size"`
	LogFile          string       `yaml:"log_file,omitempty"`
}

// ColorsConfig holds #rrggbb colors.
type ColorsConfig struct {
	Background string `yaml:"background"`
	Mark       string `yaml:"mark"`
	Light      string `yaml:"light"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:     DefaultRows,
		Cols:     DefaultCols,
		CellSize: DefaultCellSize,
		Colors: ColorsConfig{
			Background: "#888888",
			Mark:       "#000000",
			Light:      "#ffffff",
		},
		DataDir:          DefaultDataDir,
		MarqueeSpeed:     anim.DefaultSpeedLevel,
		RotateSpeed:      anim.DefaultSpeedLevel,
		RevealIntervalMs: int(anim.DefaultRevealInterval / time.Millisecond),
		FadePeriodMs:     int(anim.DefaultFadePeriod / time.Millisecond),
		TextSize:         DefaultTextSize,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("grid %dx%d: %w", c.Rows, c.Cols, ErrInvalidConfig)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("cell_size %d: %w", c.CellSize, ErrInvalidConfig)
	}
	if c.RevealIntervalMs <= 0 || c.FadePeriodMs <= 0 {
		return fmt.Errorf("intervals must be positive: %w", ErrInvalidConfig)
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	if _, ok := grid.ParseSize(c.TextSize); !ok {
		return fmt.Errorf("text_size %q: %w", c.TextSize, ErrInvalidConfig)
	}
	return nil
}

func (c *Config) Palette() (render.Palette, error) {
	var p render.Palette
	var err error
	if p.Background, err = ParseHex(c.Colors.Background); err != nil {
		return p, err
	}
	if p.Mark, err = ParseHex(c.Colors.Mark); err != nil {
		return p, err
	}
	if p.Light, err = ParseHex(c.Colors.Light); err != nil {
		return p, err
	}
	return p, nil
}

func (c *Config) Size() grid.Size {
	s, ok := grid.ParseSize(c.TextSize)
	if !ok {
		return grid.SizeMedium
	}
	return s
}

func (c *Config) RevealInterval() time.Duration {
	return time.Duration(c.RevealIntervalMs) * time.Millisecond
}

func (c *Config) FadePeriod() time.Duration {
	return time.Duration(c.FadePeriodMs) * time.Millisecond
}

func (c *Config) RecordsDir() string { return filepath.Join(c.DataDir, "records") }
func (c *Config) MediaDir() string   { return filepath.Join(c.DataDir, "media") }

// ParseHex reads #rgb or #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidConfig)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidConfig)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
