package logging

import "github.com/sirupsen/logrus"

// BaseFields builds the action + config path fields shared by every
// startup log line.
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// RequestFields builds the per-request fields attached to every access log
// line: repo identity, method, outcome, and cache effectiveness.
func RequestFields(repoKind, repoID, revision, method string, status int, cacheHit bool, elapsed float64) logrus.Fields {
	return logrus.Fields{
		"repo_kind": repoKind,
		"repo_id":   repoID,
		"revision":  revision,
		"method":    method,
		"status":    status,
		"cache_hit": cacheHit,
		"elapsed_ms": elapsed,
	}
}
