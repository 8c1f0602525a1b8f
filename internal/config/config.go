// Package config reads the mousewatch host configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"
)

const fileName = "mousewatch.yml"

type Config struct {
	Debug          bool          `yaml:"debug"`
	Tray           bool          `yaml:"tray"`
	LogMoves       bool          `yaml:"log_moves"`
	ReportInterval time.Duration `yaml:"report_interval"`
	Receiver       Receiver      `yaml:"receiver"`
}

// Receiver selects the HID receiver that is switched to another host when
// the cursor leaves the left edge of the screen.
type Receiver struct {
	Enabled   bool          `yaml:"enabled"`
	VendorID  uint16        `yaml:"vendor_id"`
	ProductID uint16        `yaml:"product_id"`
	Usage     uint16        `yaml:"usage"`
	UsagePage uint16        `yaml:"usage_page"`
	Report    []byte        `yaml:"report"`
	Debounce  time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ReportInterval: time.Second,
		Receiver: Receiver{
			VendorID:  0x046d,
			ProductID: 0xc548,
			Usage:     0x01,
			UsagePage: 0xff00,
			Report:    []byte{0x10, 0x04, 0x0a, 0x1d, 0x00, 0x00, 0x00},
			Debounce:  time.Second,
		},
	}
}

// GetPath returns the path of the user's configuration file.
func GetPath() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cfgDir = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgDir, fileName), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ReportInterval <= 0 {
		return fmt.Errorf("report_interval must be positive, got %s", c.ReportInterval)
	}
	if c.Receiver.Enabled {
		if len(c.Receiver.Report) == 0 {
			return errors.New("receiver.report must not be empty")
		}
		if c.Receiver.Debounce < 0 {
			return fmt.Errorf("receiver.debounce must not be negative, got %s", c.Receiver.Debounce)
		}
	}
	return nil
}
