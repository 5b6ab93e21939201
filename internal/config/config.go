package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mgpai22/ass2srt/internal/convert"
	"github.com/mgpai22/ass2srt/internal/logging"
	"github.com/mgpai22/ass2srt/internal/subtitle"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Watch   WatchConfig   `yaml:"watch"`
	FFmpeg  FFmpegConfig  `yaml:"ffmpeg"`
	Logging LoggingConfig `yaml:"logging"`
}

type ConvertConfig struct {
	Dir                 string `yaml:"dir"`
	OutputDir           string `yaml:"output_dir"`
	OnError             string `yaml:"on_error"`
	TextFields          string `yaml:"text_fields"`
	NormalizeTimestamps bool   `yaml:"normalize_timestamps"`
	Encoding            string `yaml:"encoding"`
}

type WatchConfig struct {
	Delay time.Duration `yaml:"delay"`
}

type FFmpegConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			Dir:        ".",
			OnError:    "skip-file",
			TextFields: "preserve",
			Encoding:   "auto",
		},
		Watch: WatchConfig{
			Delay: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks every field with the parser its consumer uses and
// rewrites the accepted spellings to their canonical form.
func (c *Config) Validate() error {
	policy, err := convert.ParsePolicy(c.Convert.OnError)
	if err != nil {
		return fmt.Errorf("convert.on_error: %w", err)
	}
	c.Convert.OnError = string(policy)

	textFields, err := subtitle.ParseTextFields(c.Convert.TextFields)
	if err != nil {
		return fmt.Errorf("convert.text_fields: %w", err)
	}
	c.Convert.TextFields = string(textFields)

	encoding, err := subtitle.ParseEncoding(c.Convert.Encoding)
	if err != nil {
		return fmt.Errorf("convert.encoding: %w", err)
	}
	c.Convert.Encoding = string(encoding)

	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	c.Logging.Level = level.String()

	if c.Watch.Delay < 0 {
		return fmt.Errorf("watch.delay must not be negative")
	}

	if c.Convert.Dir == "" {
		c.Convert.Dir = "."
	}

	return nil
}
