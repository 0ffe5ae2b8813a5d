// Package config loads the tool's settings from an optional file and
// VISUAL_MATCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ironsheep/visual-match/internal/matcher"
)

// EnvPrefix prefixes every environment override, e.g.
// VISUAL_MATCH_ACTUATOR_PORT for actuator.port.
const EnvPrefix = "VISUAL_MATCH"

// Actuator kinds.
const (
	ActuatorDryRun  = "dry_run"
	ActuatorDesktop = "desktop"
	ActuatorSerial  = "serial"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	// Script is the default template script for the CLI.
	Script string `mapstructure:"script"`

	Actuator ActuatorConfig `mapstructure:"actuator"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Press    PressConfig    `mapstructure:"press"`
}

// ActuatorConfig selects and configures the input device.
type ActuatorConfig struct {
	Kind        string        `mapstructure:"kind"`
	Port        string        `mapstructure:"port"`
	Baud        int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	Button      string        `mapstructure:"button"`
}

// CaptureConfig selects the display to grab.
type CaptureConfig struct {
	Display int `mapstructure:"display"`
}

// OCRConfig configures the Tesseract provider.
type OCRConfig struct {
	Language string `mapstructure:"language"`
	Lines    bool   `mapstructure:"lines"`
}

// PressConfig configures how matches are acted on.
type PressConfig struct {
	Duration time.Duration `mapstructure:"duration"`

	// Policy is "", "center", "normal" or "identity".
	Policy string `mapstructure:"policy"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("script", "")
	v.SetDefault("actuator.kind", ActuatorDryRun)
	v.SetDefault("actuator.port", "")
	v.SetDefault("actuator.baud", 115200)
	v.SetDefault("actuator.read_timeout", 2*time.Second)
	v.SetDefault("actuator.button", "left")
	v.SetDefault("capture.display", 0)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.lines", false)
	v.SetDefault("press.duration", matcher.DefaultPressDuration)
	v.SetDefault("press.policy", "")
}

// Load reads path (any format viper knows; skipped when empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that can be checked without touching
// devices.
func (c *Config) Validate() error {
	switch c.Actuator.Kind {
	case ActuatorDryRun, ActuatorDesktop:
	case ActuatorSerial:
		if c.Actuator.Port == "" {
			return fmt.Errorf("%w: actuator.port is required for the serial actuator", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown actuator.kind %q", ErrInvalid, c.Actuator.Kind)
	}
	if _, ok := matcher.ParsePointGenerator(c.Press.Policy); !ok {
		return fmt.Errorf("%w: unknown press.policy %q", ErrInvalid, c.Press.Policy)
	}
	if c.Press.Duration < 0 {
		return fmt.Errorf("%w: negative press.duration %v", ErrInvalid, c.Press.Duration)
	}
	if c.Capture.Display < 0 {
		return fmt.Errorf("%w: negative capture.display %d", ErrInvalid, c.Capture.Display)
	}
	return nil
}
