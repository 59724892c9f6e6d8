package config

import (
	"testing"
)

func TestDefaultGraphConfig(t *testing.T) {
	cfg := DefaultGraphConfig()

	if cfg.DeletePolicy != DeleteCascade {
		t.Errorf("Expected DeletePolicy %q, got %q", DeleteCascade, cfg.DeletePolicy)
	}
	if cfg.WriteBackups {
		t.Error("Backups should be off by default")
	}
	if cfg.ObserverTimeout != DefaultObserverTimeout {
		t.Errorf("Expected ObserverTimeout %v, got %v", DefaultObserverTimeout, cfg.ObserverTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestGraphConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*GraphConfig)
		wantErr bool
	}{
		{"forbid policy", func(c *GraphConfig) { c.DeletePolicy = DeleteForbid }, false},
		{"unknown policy", func(c *GraphConfig) { c.DeletePolicy = "orphan" }, true},
		{"json logs", func(c *GraphConfig) { c.LogFormat = "json" }, false},
		{"unknown log format", func(c *GraphConfig) { c.LogFormat = "xml" }, true},
		{"negative timeout", func(c *GraphConfig) { c.ObserverTimeout = -1 }, true},
		{"backups without target", func(c *GraphConfig) { c.WriteBackups = true; c.BackupURL = "" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGraphConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
