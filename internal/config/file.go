package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "slidecast"
	configFile = "config.yaml"
)

// Mutex for thread-safe file operations
var fileMutex sync.Mutex

// GetConfigDir returns the OS-appropriate configuration directory for the application.
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			return filepath.Join(xdgConfigHome, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// fileConfig is the on-disk layout. Durations are written as strings
// ("1s", "30s") so the file stays readable.
type fileConfig struct {
	Server          string    `yaml:"server"`
	StreamPath      string    `yaml:"stream-path"`
	RefreshInterval int       `yaml:"refresh-interval"`
	RequestTimeout  string    `yaml:"request-timeout"`
	Retry           fileRetry `yaml:"retry"`
	LogLevel        string    `yaml:"log-level,omitempty"`
	LogFile         string    `yaml:"log-file,omitempty"`
}

type fileRetry struct {
	Base       string  `yaml:"base"`
	Cap        string  `yaml:"cap"`
	Multiplier float64 `yaml:"multiplier"`
	Jitter     float64 `yaml:"jitter"`
}

func (c *Config) toFile() fileConfig {
	return fileConfig{
		Server:          c.Server,
		StreamPath:      c.StreamPath,
		RefreshInterval: c.RefreshInterval,
		RequestTimeout:  c.RequestTimeout.String(),
		Retry: fileRetry{
			Base:       c.Retry.Base.String(),
			Cap:        c.Retry.Cap.String(),
			Multiplier: c.Retry.Multiplier,
			Jitter:     c.Retry.Jitter,
		},
		LogLevel: c.LogLevel,
		LogFile:  c.LogFile,
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c.toFile())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path, or to the default location when
// path is empty. Performs an atomic write to prevent corruption on crash.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	header := []byte(`# slidecast configuration
# Environment variables (SLIDECAST_SERVER, SLIDECAST_RETRY_CAP, ...) override
# these values, and command-line flags override both.
#
# Location: ` + path + `

`)
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	c.Path = path
	return nil
}

// WriteDefault writes the built-in configuration to path unless a file
// already exists there and overwrite is false.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return "", fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("config file %s already exists", path)
		}
	}

	if err := Default().Save(path); err != nil {
		return path, err
	}
	return path, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
