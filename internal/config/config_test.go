package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "critterkeep.db", cfg.DB)
	assert.Zero(t, cfg.Seed)
	assert.Empty(t, cfg.Rules)
	assert.Empty(t, cfg.Catalog)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"CRITTERKEEP_DB":        "/tmp/game.db",
		"CRITTERKEEP_SEED":      "42",
		"CRITTERKEEP_RULES":     "hard.cue",
		"CRITTERKEEP_CATALOG":   "items.yaml",
		"CRITTERKEEP_LOG_LEVEL": "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, Config{
		DB:       "/tmp/game.db",
		Seed:     42,
		Rules:    "hard.cue",
		Catalog:  "items.yaml",
		LogLevel: slog.LevelDebug,
	}, cfg)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{"bad seed", map[string]string{"CRITTERKEEP_SEED": "lots"}, "parse env"},
		{"bad level", map[string]string{"CRITTERKEEP_LOG_LEVEL": "chatty"}, "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("CRITTERKEEP_SEED", "7")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{DB: "x.db"}.Validate())
	assert.ErrorContains(t, Config{}.Validate(), "database path is required")
}
