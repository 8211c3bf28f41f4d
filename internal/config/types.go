package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration decodes either a Go duration string ("30s") or a bare integer
// number of seconds, so config files can use whichever is convenient.
type Duration time.Duration

// UnmarshalText lets Viper accept "30s", "5m", or a plain integer seconds
// value for any Duration field.
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue returns the real time.Duration, for callers that need to
// compute deadlines or pass it to time.NewTimer et al.
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// Config is the TOML file's mapped shape: root directory, listen address,
// per-component cache sizing, and logging toggles.
type Config struct {
	RootDir     string `mapstructure:"RootDir"`
	ListenPort  int    `mapstructure:"ListenPort"`
	ListenAddr  string `mapstructure:"ListenAddr"`

	CacheTTL               Duration `mapstructure:"CacheTTL"`
	SidecarCacheCapacity   int      `mapstructure:"SidecarCacheCapacity"`
	SiblingsCacheCapacity  int      `mapstructure:"SiblingsCacheCapacity"`
	PathsInfoCacheCapacity int      `mapstructure:"PathsInfoCacheCapacity"`
	Sha256CacheCapacity    int      `mapstructure:"Sha256CacheCapacity"`

	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}
