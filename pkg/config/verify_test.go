package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr bool
		errMsg  string
	}{
		{name: "valid config", modify: func(*Config) {}},
		{
			name: "valid config with sources",
			modify: func(cfg *Config) {
				cfg.Sources = []SourceConfig{{Name: "feed", Kind: "feed", URL: "https://example.com/rss", Pages: 1}}
			},
		},
		{
			name:    "missing server listen",
			modify:  func(cfg *Config) { cfg.Server.Listen = "" },
			wantErr: true,
			errMsg:  "server.listen is required",
		},
		{
			name:    "missing database dsn",
			modify:  func(cfg *Config) { cfg.Database.DSN = "" },
			wantErr: true,
			errMsg:  "database.dsn is required",
		},
		{
			name:    "incomplete source",
			modify:  func(cfg *Config) { cfg.Sources = []SourceConfig{{Name: "x"}} },
			wantErr: true,
			errMsg:  "sources[0] requires name, kind and url",
		},
		{
			name:    "proxy enabled without list",
			modify:  func(cfg *Config) { cfg.Proxy.Enabled = true },
			wantErr: true,
			errMsg:  "proxy.proxies or proxy.file is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEmbeddedSchema(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(embeddedSchema), &schema))
	assert.Equal(t, "#/$defs/Config", schema["$ref"])

	defs, ok := schema["$defs"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"Config", "SourceConfig", "ProxyConfig", "FetchConfig", "FilterConfig",
		"CacheConfig", "LLMConfig", "AnalysisConfig", "RankingConfig", "CollectConfig", "Weights"} {
		assert.Contains(t, defs, name)
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)
	assert.Contains(t, string(data), "freshness_window")
	assert.Contains(t, string(data), "allowed_suffixes")
}
