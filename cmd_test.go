package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "duel.yaml")
	require.NoError(t, os.WriteFile(file, []byte("http:\n  port: 9000\ngame:\n  questions_per_game: 3\n"), 0o600))

	tests := map[string]struct {
		args    []string
		port    int
		wantErr bool
	}{
		"defaults":       {args: nil, port: 8080},
		"file":           {args: []string{"-c", file}, port: 9000},
		"flag overrides": {args: []string{"--config", file, "--port", "9100"}, port: 9100},
		"bad port":       {args: []string{"-p", "70000"}, wantErr: true},
		"missing file":   {args: []string{"-c", filepath.Join(dir, "nope.yaml")}, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", "")

			cmd := newCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			config, _ := cmd.Flags().GetString("config")
			port, _ := cmd.Flags().GetInt("port")

			c, err := loadConfig(cmd.Flags(), flags{config: config, port: port})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.port, c.HTTP.Port)
		})
	}
}
