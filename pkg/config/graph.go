// Package config defines graph settings and their defaults.
package config

import (
	"fmt"
	"time"
)

// DeletePolicy decides what happens to edges when a node they reference is
// deleted.
type DeletePolicy string

const (
	// DeleteCascade removes the incident edges with the node.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteForbid refuses to delete a node that still has edges.
	DeleteForbid DeletePolicy = "forbid"
)

// GraphConfig holds per-graph settings.
type GraphConfig struct {
	// Directed is passed to metric collaborators.
	Directed bool `mapstructure:"directed" json:"directed"`
	// DeletePolicy is "cascade" or "forbid".
	DeletePolicy DeletePolicy `mapstructure:"delete_policy" json:"delete_policy"`
	// WriteBackups saves a snapshot after every committed mutation.
	WriteBackups bool `mapstructure:"write_backups" json:"write_backups"`
	// BackupURL is "s3://bucket/prefix" or a local directory.
	BackupURL string `mapstructure:"backup_url" json:"backup_url,omitempty"`
	// LedgerPath is the JSONL action ledger; empty disables it.
	LedgerPath string `mapstructure:"ledger_path" json:"ledger_path,omitempty"`
	// ObserverTimeout bounds each observer call.
	ObserverTimeout time.Duration `mapstructure:"observer_timeout" json:"observer_timeout"`
	// LogFormat is "json" or "text".
	LogFormat string `mapstructure:"log_format" json:"log_format,omitempty"`
}

// Defaults.
const (
	DefaultBackupDir       = ".graphkit/backups"
	DefaultObserverTimeout = 10 * time.Second
)

// DefaultGraphConfig returns a configuration with sensible default values.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		Directed:        true,
		DeletePolicy:    DeleteCascade,
		WriteBackups:    false,
		BackupURL:       DefaultBackupDir,
		ObserverTimeout: DefaultObserverTimeout,
		LogFormat:       "text",
	}
}

// Validate rejects settings the graph cannot honour.
func (c GraphConfig) Validate() error {
	switch c.DeletePolicy {
	case DeleteCascade, DeleteForbid:
	default:
		return fmt.Errorf("unknown delete_policy %q (want %q or %q)", c.DeletePolicy, DeleteCascade, DeleteForbid)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if c.ObserverTimeout < 0 {
		return fmt.Errorf("observer_timeout must not be negative")
	}
	if c.WriteBackups && c.BackupURL == "" {
		return fmt.Errorf("write_backups requires backup_url")
	}
	return nil
}
