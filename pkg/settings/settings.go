package settings

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings represents user choices that persist across application restarts.
type Settings struct {
	// ChannelList is the file name of the last chosen channel list.
	ChannelList string `yaml:"channelList"`
	// LastChannel is the name of the last watched channel.
	LastChannel string `yaml:"lastChannel,omitempty"`
	// ShowStats overlays render statistics while watching.
	ShowStats bool `yaml:"showStats,omitempty"`
}

// Load reads the settings file from disk. When the file is missing or cannot
// be parsed, empty settings are returned so the application can continue.
func Load(path string) Settings {
	source, err := os.ReadFile(path)
	if err != nil {
		return Settings{}
	}

	var s Settings
	if err := yaml.Unmarshal(source, &s); err != nil {
		return Settings{}
	}
	return s
}

// Save writes the settings through a temporary file so a crash never leaves
// a truncated file behind.
func Save(path string, s Settings) error {
	out, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
