package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths locates the config file and the data directory a fresh config points at.
type Paths struct {
	Config string
	Data   string
}

// DefaultPaths resolves, in order: HUB_CONFIG_PATH and HUB_HOME, the XDG base
// directories, then ~/.config/hub.toml and ~/.local/share/hub.
func DefaultPaths() (Paths, error) {
	config, err := resolve("HUB_CONFIG_PATH", "XDG_CONFIG_HOME", "hub.toml", ".config")
	if err != nil {
		return Paths{}, err
	}
	data, err := resolve("HUB_HOME", "XDG_DATA_HOME", "hub", ".local", "share")
	if err != nil {
		return Paths{}, err
	}
	return Paths{Config: config, Data: data}, nil
}

func resolve(override, xdg, name string, homeRel ...string) (string, error) {
	if p := os.Getenv(override); p != "" {
		return p, nil
	}
	if dir := os.Getenv(xdg); filepath.IsAbs(dir) {
		return filepath.Join(dir, name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append(append([]string{home}, homeRel...), name)...), nil
}
