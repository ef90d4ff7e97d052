package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/shorewrap", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "shorewrap"), got)
	})
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{
			name:    "flag wins over env",
			flag:    "/explicit/config",
			envVal:  "/env/config",
			wantSub: "/explicit/config",
		},
		{
			name:    "env wins when flag empty",
			flag:    "",
			envVal:  "/env/config",
			wantSub: "/env/config",
		},
		{
			name:    "platform default when both empty",
			flag:    "",
			envVal:  "",
			wantSub: "shorewrap",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveProjectRoot(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		cfgVal  string
		envVal  string
		wantSub string
	}{
		{
			name:    "flag wins over everything",
			flag:    "/explicit/root",
			cfgVal:  "/config/root",
			envVal:  "/env/root",
			wantSub: "/explicit/root",
		},
		{
			name:    "config value wins over env",
			flag:    "",
			cfgVal:  "/config/root",
			envVal:  "/env/root",
			wantSub: "/config/root",
		},
		{
			name:    "env wins when flag and config empty",
			flag:    "",
			cfgVal:  "",
			envVal:  "/env/root",
			wantSub: "/env/root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvProjectRoot, tt.envVal)
			got, err := ResolveProjectRoot(tt.flag, tt.cfgVal)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}

	t.Run("falls back to the working directory", func(t *testing.T) {
		t.Setenv(EnvProjectRoot, "")
		cwd, err := os.Getwd()
		require.NoError(t, err)

		got, err := ResolveProjectRoot("", "")
		require.NoError(t, err)
		assert.Equal(t, cwd, got)
	})
}
