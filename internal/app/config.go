package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"gopkg.in/yaml.v3"

	"github.com/tejashwikalptaru/tunedeck/internal/adapter/frame"
	fyneui "github.com/tejashwikalptaru/tunedeck/internal/adapter/ui/fyne"
	"github.com/tejashwikalptaru/tunedeck/internal/domain"
	"github.com/tejashwikalptaru/tunedeck/internal/logger"
	"github.com/tejashwikalptaru/tunedeck/internal/service"
	"github.com/tejashwikalptaru/tunedeck/internal/visualizer"
)

// Config holds application configuration.
type Config struct {
	// AppID is the unique application identifier; it also names the preferences store
	AppID string

	// AppName is the display name
	AppName string

	// SampleRate is the audio output sample rate
	SampleRate int

	// BufferSize is the speaker buffer length
	BufferSize time.Duration

	// UseMockAudio determines whether to use a mock audio engine (for testing)
	UseMockAudio bool

	// LogLevel controls logging verbosity
	LogLevel slog.Level

	// LogFormat is "text" or "json"
	LogFormat string

	// Visualizer describes the spectrum drawing
	Visualizer visualizer.Options

	// FPS is the visualizer frame rate
	FPS int

	// SpeedOptions are offered by the speed selector
	SpeedOptions []float64

	// ToastDuration is how long notifications stay on screen
	ToastDuration time.Duration

	// UpdateInterval is how often playback progress is published
	UpdateInterval time.Duration

	// TestFyneApp allows injecting a test Fyne app for testing (nil for production)
	TestFyneApp fyne.App
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() Config {
	loggerCfg := logger.DefaultConfig()
	return Config{
		AppID:          "com.tunedeck.app",
		AppName:        "TuneDeck",
		SampleRate:     44100,
		BufferSize:     100 * time.Millisecond,
		LogLevel:       loggerCfg.Level,
		LogFormat:      loggerCfg.Format,
		Visualizer:     visualizer.DefaultOptions(),
		FPS:            frame.DefaultFPS,
		SpeedOptions:   append([]float64(nil), domain.SpeedOptions...),
		ToastDuration:  fyneui.DefaultToastDuration,
		UpdateInterval: service.DefaultUpdateInterval,
	}
}

// fileConfig is the YAML layout of the config file.
type fileConfig struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Audio struct {
		SampleRate int  `yaml:"sample_rate"`
		BufferMs   int  `yaml:"buffer_ms"`
		Mock       bool `yaml:"mock"`
	} `yaml:"audio"`
	Visual struct {
		FFTSize      int      `yaml:"fft_size"`
		FPS          int      `yaml:"fps"`
		BarScale     float64  `yaml:"bar_scale"`
		BarSpacing   float64  `yaml:"bar_spacing"`
		CornerRadius float64  `yaml:"corner_radius"`
		Smoothing    float64  `yaml:"smoothing"`
		MinDecibels  float64  `yaml:"min_decibels"`
		MaxDecibels  float64  `yaml:"max_decibels"`
		Colors       []string `yaml:"colors"`
		Anchor       string   `yaml:"anchor"`
	} `yaml:"visual"`
	SpeedOptions []float64 `yaml:"speed_options"`
	ToastSeconds float64   `yaml:"toast_seconds"`
}

// toFile renders c in the file layout, so unset keys keep their values.
func (c *Config) toFile() fileConfig {
	var fc fileConfig
	fc.Log.Level = c.LogLevel.String()
	fc.Log.Format = c.LogFormat
	fc.Audio.SampleRate = c.SampleRate
	fc.Audio.BufferMs = int(c.BufferSize / time.Millisecond)
	fc.Audio.Mock = c.UseMockAudio

	v := c.Visualizer
	fc.Visual.FFTSize = v.FFTSize
	fc.Visual.FPS = c.FPS
	fc.Visual.BarScale = v.BarScale
	fc.Visual.BarSpacing = v.BarSpacing
	fc.Visual.CornerRadius = v.CornerRadius
	fc.Visual.Smoothing = v.Analysis.Smoothing
	fc.Visual.MinDecibels = v.Analysis.MinDecibels
	fc.Visual.MaxDecibels = v.Analysis.MaxDecibels
	fc.Visual.Anchor = string(v.Anchor)

	fc.SpeedOptions = c.SpeedOptions
	fc.ToastSeconds = c.ToastDuration.Seconds()
	return fc
}

func (c *Config) apply(fc fileConfig) error {
	if lvl, ok := logger.ParseLevel(fc.Log.Level); ok {
		c.LogLevel = lvl
	}
	c.LogFormat = fc.Log.Format
	c.SampleRate = fc.Audio.SampleRate
	c.BufferSize = time.Duration(fc.Audio.BufferMs) * time.Millisecond
	c.UseMockAudio = fc.Audio.Mock

	v := &c.Visualizer
	v.FFTSize = fc.Visual.FFTSize
	c.FPS = fc.Visual.FPS
	v.BarScale = fc.Visual.BarScale
	v.BarSpacing = fc.Visual.BarSpacing
	v.CornerRadius = fc.Visual.CornerRadius
	v.Analysis.Smoothing = fc.Visual.Smoothing
	v.Analysis.MinDecibels = fc.Visual.MinDecibels
	v.Analysis.MaxDecibels = fc.Visual.MaxDecibels
	v.Anchor = visualizer.Anchor(fc.Visual.Anchor)

	if len(fc.Visual.Colors) > 0 {
		stops, err := colorStops(fc.Visual.Colors)
		if err != nil {
			return err
		}
		v.Stops = stops
	}

	c.SpeedOptions = fc.SpeedOptions
	c.ToastDuration = time.Duration(fc.ToastSeconds * float64(time.Second))
	return nil
}

// colorStops spreads hex colours evenly from the top to the bottom of the bars.
func colorStops(colors []string) ([]visualizer.ColorStop, error) {
	if len(colors) < 2 {
		return nil, fmt.Errorf("visual.colors needs at least two entries, got %d", len(colors))
	}
	stops := make([]visualizer.ColorStop, len(colors))
	for i, hex := range colors {
		c, err := visualizer.ParseHexColor(hex)
		if err != nil {
			return nil, err
		}
		stops[i] = visualizer.ColorStop{Offset: float64(i) / float64(len(colors)-1), Color: c}
	}
	return stops, nil
}

// LoadConfigFile merges the YAML file at path over c. Keys missing from the
// file keep their current values.
func (c *Config) LoadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fc := c.toFile()
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	next := *c
	if err := next.apply(fc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	*c = next
	return nil
}

// ConfigPaths lists where the config file is looked for, in order.
func ConfigPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "tunedeck", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tunedeck", "config.yaml"),
			filepath.Join(home, ".config", "tunedeck", "config.yml"),
		)
	}
	return paths
}

// TryLoadConfig loads the first config file that exists and returns its
// path, or "" when there is none.
func (c *Config) TryLoadConfig() (string, error) {
	for _, p := range ConfigPaths() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return p, c.LoadConfigFile(p)
	}
	return "", nil
}
