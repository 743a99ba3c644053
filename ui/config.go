package ui

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"chiptor/emu"
	"chiptor/emu/log"
	"chiptor/hw/input"
)

type GeneralConfig struct {
	// MaxRecentROMs bounds the number of entries shown in the recent ROMs
	// gallery. Extra entries remain on disk, they're just not shown.
	MaxRecentROMs int `toml:"max_recent_roms"`
}

type Config struct {
	emu.Config
	General GeneralConfig `toml:"general"`
}

const DefaultFileMode = os.FileMode(0755)

var ConfigDir = sync.OnceValue(func() string {
	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.ModEmu.Fatalf("failed to get user config directory: %v", err)
	}

	dir := filepath.Join(cfgdir, "chiptor")
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

var defaultConfig = Config{
	Config: emu.Config{
		Input: input.Config{
			Keys: input.DefaultKeys(),
		},
		Video: emu.VideoConfig{
			Scale:        emu.DefaultScale,
			DisableVSync: false,
			Monitor:      0,
		},
		Emulation: emu.EmulationConfig{
			ClockHz: emu.DefaultClockHz,
		},
		TraceOut: nil,
	},
	General: GeneralConfig{
		MaxRecentROMs: 16,
	},
}

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the chiptor config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	var cfg Config
	_, err := toml.DecodeFile(filepath.Join(ConfigDir(), cfgFilename), &cfg)
	if err != nil {
		return defaultConfig
	}
	cfg.Input.Init()
	return cfg
}

// SaveConfig into chiptor config directory.
func SaveConfig(cfg Config) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(ConfigDir(), cfgFilename), buf, 0644)
}
