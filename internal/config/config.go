package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockPollInterval = 50 * time.Millisecond

// lockTimeout bounds how long Save waits for the lock.
var lockTimeout = 5 * time.Second

// ErrLocked is returned by Save when another process holds the config lock.
var ErrLocked = errors.New("config is locked by another process")

// Config holds the defaults applets fall back to when flags are absent.
type Config struct {
	Shred    Shred    `json:"shred"`
	Date     Date     `json:"date"`
	Rtmap    Rtmap    `json:"rtmap"`
	Datetime Datetime `json:"datetime"`
}

type Shred struct {
	Iterations int  `json:"iterations"`
	Zero       bool `json:"zero"`
}

type Date struct {
	// Format is the strftime layout date prints without +FORMAT.
	Format string `json:"format"`
}

type Rtmap struct {
	RealmsFile string `json:"realms_file"`
}

type Datetime struct {
	// Minimal selects the positional date scans instead of the templates.
	Minimal bool `json:"minimal"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Shred:    Shred{Iterations: 3},
		Date:     Date{Format: "%a %b %e %H:%M:%S %Z %Y"},
		Rtmap:    Rtmap{RealmsFile: "/etc/iproute2/rt_realms"},
		Datetime: Datetime{},
	}
}

// Validate rejects values no applet can use.
func (c Config) Validate() error {
	if c.Shred.Iterations < 0 {
		return fmt.Errorf("shred.iterations must not be negative, got %d", c.Shred.Iterations)
	}
	if c.Date.Format == "" {
		return errors.New("date.format must not be empty")
	}
	return nil
}

// configDir returns the config directory path.
// Exported as a var for testing.
var configDir = defaultConfigDir

func defaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "nanobox")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(configDir(), "config.json")
}

// Exists returns true if a config file has been saved.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads the config file. Returns the defaults if the file doesn't
// exist; keys missing from the file keep their default values.
func Load() (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk. Concurrent writers are serialized through
// a lock file next to the config and the file is replaced atomically.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := configDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	lock := flock.New(Path() + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, lockPollInterval)
	if err != nil || !locked {
		return ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp := Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, Path())
}
