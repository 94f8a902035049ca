package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ctltable/pkg/terminal"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Color:       "auto",
		Unicode:     true,
		NaturalSort: true,
		LogLevel:    "error",
	}, cfg)
	assert.Equal(t, terminal.ColorAuto, cfg.ColorMode())
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    func(*Config)
		wantErr string
	}{
		{
			name: "empty file keeps defaults",
			data: "\n",
			want: func(*Config) {},
		},
		{
			name: "partial override",
			data: "color: never\nmaxWidth: 90\n",
			want: func(c *Config) {
				c.Color = "never"
				c.MaxWidth = 90
			},
		},
		{
			name: "booleans can be switched off",
			data: "unicode: false\nnaturalSort: false\n",
			want: func(c *Config) {
				c.Unicode = false
				c.NaturalSort = false
			},
		},
		{
			name: "comments only",
			data: "# nothing set yet\n",
			want: func(*Config) {},
		},
		{name: "unknown key", data: "colour: never\n", wantErr: "colour"},
		{name: "bad color mode", data: "color: sometimes\n", wantErr: "invalid color mode"},
		{name: "negative width", data: "maxWidth: -1\n", wantErr: "maxWidth"},
		{name: "bad log level", data: "logLevel: chatty\n", wantErr: "invalid logLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			err = Merge(&cfg, []byte(tt.data))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			want, _ := Default()
			tt.want(&want)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]int8{"debug": -1, "info": 0, "WARN": 1, "error": 2} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDefaultYAMLIsCopy(t *testing.T) {
	a := DefaultYAML()
	a[0] = '!'
	assert.NotEqual(t, a[0], DefaultYAML()[0])
}
