package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under the platform config root.
const AppName = "coto"

// SettingsFile is the settings file name inside the config directory.
const SettingsFile = "config.toml"

// Paths contains the standard paths for coto data.
type Paths struct {
	Config string // ~/.config/coto
	State  string // ~/.local/state/coto
}

// PathsFrom returns the standard paths, reading environment variables through getenv.
func PathsFrom(getenv func(string) string) *Paths {
	configDir := getenv("COTO_CONFIG_DIR")
	if configDir == "" {
		configDir = filepath.Join(envOrDefault(getenv, "XDG_CONFIG_HOME", defaultConfigHome(getenv)), AppName)
	}
	return &Paths{
		Config: configDir,
		State:  filepath.Join(envOrDefault(getenv, "XDG_STATE_HOME", defaultStateHome(getenv)), AppName),
	}
}

// SettingsPath returns the path to the settings file.
func (p *Paths) SettingsPath() string {
	return filepath.Join(p.Config, SettingsFile)
}

// LogDir returns the directory for log files.
func (p *Paths) LogDir() string {
	return filepath.Join(p.State, "log")
}

func envOrDefault(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome(getenv func(string) string) string {
	if runtime.GOOS == "windows" {
		return getenv("APPDATA")
	}
	return filepath.Join(homeDir(getenv), ".config")
}

func defaultStateHome(getenv func(string) string) string {
	if runtime.GOOS == "windows" {
		return getenv("APPDATA")
	}
	return filepath.Join(homeDir(getenv), ".local", "state")
}

func homeDir(getenv func(string) string) string {
	if home := getenv("HOME"); home != "" {
		return home
	}
	home, _ := os.UserHomeDir()
	return home
}
