package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		apiBaseURL      string
		stateDir        string
		refreshInterval time.Duration
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				apiBaseURL:      "http://localhost:8000",
				stateDir:        ".storefront",
				refreshInterval: 30 * time.Second,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"API_BASE_URL":     "http://192.168.1.50:8000",
				"STATE_DIR":        "/tmp/storefront-state",
				"REFRESH_INTERVAL": "45s",
			},
			flags: []string{},
			want: want{
				apiBaseURL:      "http://192.168.1.50:8000",
				stateDir:        "/tmp/storefront-state",
				refreshInterval: 45 * time.Second,
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "http://flag-host:9000",
				"-s", "/tmp/flag-state",
				"-i", "10s",
			},
			want: want{
				apiBaseURL:      "http://flag-host:9000",
				stateDir:        "/tmp/flag-state",
				refreshInterval: 10 * time.Second,
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"API_BASE_URL":     "http://env-host:8000",
				"STATE_DIR":        "/tmp/env-state",
				"REFRESH_INTERVAL": "1m",
			},
			flags: []string{
				"-a", "http://flag-host:9000",
				"-s", "/tmp/flag-state",
				"-i", "10s",
			},
			want: want{
				apiBaseURL:      "http://env-host:8000",
				stateDir:        "/tmp/env-state",
				refreshInterval: time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.apiBaseURL, cfg.APIBaseURL)
			assert.Equal(t, tt.want.stateDir, cfg.StateDir)
			assert.Equal(t, tt.want.refreshInterval, cfg.RefreshInterval)
		})
	}
}
