package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load reads and parses a TOML config file, filling in defaults and
// running semantic validation before returning.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root directory: %w", err)
	}
	cfg.RootDir = absRoot

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 8080)
	v.SetDefault("ListenAddr", "0.0.0.0")
	v.SetDefault("CacheTTL", "2000ms")
	v.SetDefault("SidecarCacheCapacity", 2048)
	v.SetDefault("SiblingsCacheCapacity", 256)
	v.SetDefault("PathsInfoCacheCapacity", 512)
	v.SetDefault("Sha256CacheCapacity", 1024)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
}

func applyDefaults(c *Config) {
	if c.ListenPort == 0 {
		c.ListenPort = 8080
	}
	if c.ListenAddr == "" {
		c.ListenAddr = "0.0.0.0"
	}
	if c.CacheTTL.DurationValue() == 0 {
		c.CacheTTL = Duration(2 * time.Second)
	}
	if c.SidecarCacheCapacity == 0 {
		c.SidecarCacheCapacity = 2048
	}
	if c.SiblingsCacheCapacity == 0 {
		c.SiblingsCacheCapacity = 256
	}
	if c.PathsInfoCacheCapacity == 0 {
		c.PathsInfoCacheCapacity = 512
	}
	if c.Sha256CacheCapacity == 0 {
		c.Sha256CacheCapacity = 1024
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("cannot parse Duration field: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("unsupported Duration type: %T", v)
		}
	}
}
