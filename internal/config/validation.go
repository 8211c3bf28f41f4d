package config

import "errors"

// Validate runs semantic checks beyond what mapstructure's type decoding
// already guarantees, so a malformed config fails at startup, not mid-request.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.RootDir == "" {
		return newFieldError("RootDir", "must not be empty")
	}
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return newFieldError("ListenPort", "must be in 1-65535")
	}
	if c.CacheTTL.DurationValue() <= 0 {
		return newFieldError("CacheTTL", "must be greater than 0")
	}
	if c.SidecarCacheCapacity <= 0 {
		return newFieldError("SidecarCacheCapacity", "must be greater than 0")
	}
	if c.SiblingsCacheCapacity <= 0 {
		return newFieldError("SiblingsCacheCapacity", "must be greater than 0")
	}
	if c.PathsInfoCacheCapacity <= 0 {
		return newFieldError("PathsInfoCacheCapacity", "must be greater than 0")
	}
	if c.Sha256CacheCapacity <= 0 {
		return newFieldError("Sha256CacheCapacity", "must be greater than 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return newFieldError("LogLevel", "must be one of debug|info|warn|error")
	}
	return nil
}
