package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"tv-frame/pkg/device"
)

// Config is the process configuration read from the environment.
type Config struct {
	WindowTitle string
	// Adapter is the DVB adapter directory holding the device nodes.
	Adapter string
	// ConfigsDir holds one file per channel list.
	ConfigsDir string
	// SessionDir receives the per-session channel files.
	SessionDir   string
	SettingsPath string
	// Windowed disables fullscreen.
	Windowed bool

	// Channel lists are synced from S3 at startup when Bucket is set.
	Bucket string
	Prefix string
	Region string
}

// Load reads .env files, if present, and then the environment.
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment, applying defaults.
func FromEnv() Config {
	home, err := os.UserConfigDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, "tv-frame")

	return Config{
		WindowTitle:  getenv("TV_TITLE", "TV Frame"),
		Adapter:      getenv("DVB_ADAPTER", device.DefaultAdapter),
		ConfigsDir:   getenv("TV_CONFIGS_DIR", filepath.Join(base, "configs")),
		SessionDir:   getenv("TV_SESSION_DIR", filepath.Join(os.TempDir(), "tv-frame")),
		SettingsPath: getenv("TV_SETTINGS", filepath.Join(base, "settings.yaml")),
		Windowed:     getbool("TV_WINDOWED", false),
		Bucket:       os.Getenv("TV_CHANNELS_BUCKET"),
		Prefix:       os.Getenv("TV_CHANNELS_PREFIX"),
		Region:       getenv("AWS_DEFAULT_REGION", "us-east-1"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a boolean, using %v", key, v, fallback)
		return fallback
	}
	return b
}
