package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "HV"

	configDir  = ".hvac"
	configName = "config"
	configType = "toml"

	KeyBaseURL       = "backend.base_url"
	KeyTimeout       = "backend.timeout"
	KeyRetryAttempts = "backend.retry_attempts"
	KeyRetryDelay    = "backend.retry_delay"
	KeyRateLimit     = "backend.rate_limit"
	KeyRateBurst     = "backend.rate_burst"
	KeyTokenStore    = "token.store"
	KeySecretsDir    = "token.secrets_dir"
	KeyPreferences   = "preferences.path"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
	KeyLogMaxSizeMB  = "log.max_size_mb"
	KeyLogMaxBackups = "log.max_backups"
)

const (
	TokenStoreChain = "chain"
	TokenStoreFile  = "file"
)

type Config struct {
	Backend     BackendConfig
	Token       TokenConfig
	Preferences PreferencesConfig
	Log         LogConfig
	// File is the config file that was read, empty when none exists.
	File string
}

type BackendConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	RateLimit     float64
	RateBurst     int
}

type TokenConfig struct {
	Store      string
	SecretsDir string
}

type PreferencesConfig struct {
	Path string
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Load reads ~/.hvac/config.toml when present and applies HV_* environment
// overrides, e.g. HV_BACKEND_BASE_URL for backend.base_url.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	root := filepath.Join(homeDir, configDir)

	setDefaults(v, root)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(root)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Backend: BackendConfig{
			BaseURL:       strings.TrimSpace(v.GetString(KeyBaseURL)),
			Timeout:       v.GetDuration(KeyTimeout),
			RetryAttempts: v.GetUint(KeyRetryAttempts),
			RetryDelay:    v.GetDuration(KeyRetryDelay),
			RateLimit:     v.GetFloat64(KeyRateLimit),
			RateBurst:     v.GetInt(KeyRateBurst),
		},
		Token: TokenConfig{
			Store:      strings.ToLower(strings.TrimSpace(v.GetString(KeyTokenStore))),
			SecretsDir: v.GetString(KeySecretsDir),
		},
		Preferences: PreferencesConfig{
			Path: v.GetString(KeyPreferences),
		},
		Log: LogConfig{
			Level:      strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
			Format:     strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSizeMB),
			MaxBackups: v.GetInt(KeyLogMaxBackups),
		},
		File: v.ConfigFileUsed(),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, root string) {
	v.SetDefault(KeyBaseURL, "http://localhost:5000/api")
	v.SetDefault(KeyTimeout, 15*time.Second)
	v.SetDefault(KeyRetryAttempts, 3)
	v.SetDefault(KeyRetryDelay, 200*time.Millisecond)
	v.SetDefault(KeyRateLimit, 10)
	v.SetDefault(KeyRateBurst, 5)
	v.SetDefault(KeyTokenStore, TokenStoreChain)
	v.SetDefault(KeySecretsDir, filepath.Join(root, "secrets"))
	v.SetDefault(KeyPreferences, filepath.Join(root, "preferences.toml"))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, filepath.Join(root, "logs", "hv.log"))
	v.SetDefault(KeyLogMaxSizeMB, 5)
	v.SetDefault(KeyLogMaxBackups, 3)
}

func (c Config) Validate() error {
	parsed, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) url, got %q", KeyBaseURL, c.Backend.BaseURL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyTimeout)
	}
	if c.Backend.RetryAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", KeyRetryAttempts)
	}
	if c.Backend.RetryDelay < 0 {
		return fmt.Errorf("%s must not be negative", KeyRetryDelay)
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("%s must not be negative", KeyRateLimit)
	}
	if c.Backend.RateLimit > 0 && c.Backend.RateBurst < 1 {
		return fmt.Errorf("%s must be at least 1 when rate limiting is enabled", KeyRateBurst)
	}

	switch c.Token.Store {
	case TokenStoreChain, TokenStoreFile:
	default:
		return fmt.Errorf("%s must be one of: %s, %s", KeyTokenStore, TokenStoreChain, TokenStoreFile)
	}
	if strings.TrimSpace(c.Token.SecretsDir) == "" {
		return fmt.Errorf("%s is required", KeySecretsDir)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("%s must be one of: debug, info, warn, error", KeyLogLevel)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("%s must be one of: json, text", KeyLogFormat)
	}

	return nil
}
