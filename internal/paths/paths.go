// Package paths resolves the shorewrap configuration directory and the
// modelling project root.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir   = "SHOREWRAP_CONFIG_DIR"
	EnvProjectRoot = "SHOREWRAP_PROJECT_ROOT"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/shorewrap (fallback ~/.config/shorewrap)
// macOS:   ~/Library/Application Support/shorewrap
// Windows: %APPDATA%/shorewrap
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "shorewrap"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "shorewrap"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "shorewrap"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SHOREWRAP_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveProjectRoot returns the modelling project root following the
// precedence chain: flag > config value > SHOREWRAP_PROJECT_ROOT env >
// current working directory. The project root hosts the model function
// directories added to the engine search path.
func ResolveProjectRoot(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvProjectRoot); env != "" {
		return filepath.Abs(env)
	}
	return os.Getwd()
}
