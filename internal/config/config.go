// Package config loads runtime settings from defaults, an optional YAML
// file and SCHED_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	GeneratorRemote = "remote"
	GeneratorLLM    = "llm"

	envPrefix = "SCHED"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type LogConfig struct {
	File       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Config struct {
	APIBaseURL     string
	DBPath         string
	StateFile      string
	SessionFile    string
	JWTSecret      string
	UserID         string
	Generator      string
	OpenAI         OpenAIConfig
	RequestTimeout time.Duration
	Alarms         bool
	AlarmBuffer    int
	Log            LogConfig
}

func Default() Config {
	return Config{
		APIBaseURL:     "http://localhost:4000",
		DBPath:         "sched.db",
		StateFile:      ".sched_state.json",
		SessionFile:    ".sched_session",
		Generator:      GeneratorRemote,
		OpenAI:         OpenAIConfig{Model: "gpt-4o-mini"},
		RequestTimeout: 60 * time.Second,
		Alarms:         true,
		AlarmBuffer:    64,
		Log: LogConfig{
			File:       "sched.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("api_base_url", d.APIBaseURL)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("state_file", d.StateFile)
	v.SetDefault("session_file", d.SessionFile)
	v.SetDefault("jwt_secret", d.JWTSecret)
	v.SetDefault("user_id", d.UserID)
	v.SetDefault("generator", d.Generator)
	v.SetDefault("openai_api_key", d.OpenAI.APIKey)
	v.SetDefault("openai_model", d.OpenAI.Model)
	v.SetDefault("openai_base_url", d.OpenAI.BaseURL)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("alarms", d.Alarms)
	v.SetDefault("alarm_buffer", d.AlarmBuffer)
	v.SetDefault("log_file", d.Log.File)
	v.SetDefault("log_level", d.Log.Level)
	v.SetDefault("log_max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log_max_backups", d.Log.MaxBackups)
	v.SetDefault("log_max_age_days", d.Log.MaxAgeDays)
}

// Load reads path when given; otherwise a sched.yaml in the working
// directory is used if present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if p := strings.TrimSpace(path); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", p, err)
		}
	} else {
		v.SetConfigName("sched")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read sched.yaml: %w", err)
			}
		}
	}

	cfg := Config{
		APIBaseURL:  v.GetString("api_base_url"),
		DBPath:      v.GetString("db_path"),
		StateFile:   v.GetString("state_file"),
		SessionFile: v.GetString("session_file"),
		JWTSecret:   v.GetString("jwt_secret"),
		UserID:      v.GetString("user_id"),
		Generator:   strings.ToLower(strings.TrimSpace(v.GetString("generator"))),
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("openai_api_key"),
			Model:   v.GetString("openai_model"),
			BaseURL: v.GetString("openai_base_url"),
		},
		RequestTimeout: v.GetDuration("request_timeout"),
		Alarms:         v.GetBool("alarms"),
		AlarmBuffer:    v.GetInt("alarm_buffer"),
		Log: LogConfig{
			File:       v.GetString("log_file"),
			Level:      strings.ToLower(v.GetString("log_level")),
			MaxSizeMB:  v.GetInt("log_max_size_mb"),
			MaxBackups: v.GetInt("log_max_backups"),
			MaxAgeDays: v.GetInt("log_max_age_days"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Generator {
	case GeneratorRemote:
		if strings.TrimSpace(c.APIBaseURL) == "" {
			return fmt.Errorf("%w: api_base_url is required for the remote generator", ErrInvalidConfig)
		}
	case GeneratorLLM:
		if strings.TrimSpace(c.OpenAI.APIKey) == "" {
			return fmt.Errorf("%w: openai_api_key is required for the llm generator", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalidConfig, c.Generator)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	if c.AlarmBuffer <= 0 {
		return fmt.Errorf("%w: alarm_buffer must be positive", ErrInvalidConfig)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}
