package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the hitbody configuration
type Config struct {
	Include         *bool             `json:"include,omitempty" yaml:"include,omitempty"`
	Color           *bool             `json:"color,omitempty" yaml:"color,omitempty"` // nil means detect from the terminal
	Output          string            `json:"output,omitempty" yaml:"output,omitempty"`
	Compressed      *bool             `json:"compressed,omitempty" yaml:"compressed,omitempty"`
	FollowRedirects *bool             `json:"followRedirects,omitempty" yaml:"followRedirects,omitempty"`
	MaxRedirects    *int              `json:"maxRedirects,omitempty" yaml:"maxRedirects,omitempty"` // 0 follows no redirects
	Insecure        *bool             `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	Proxy           string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Timeout         int               `json:"timeout,omitempty" yaml:"timeout,omitempty"` // milliseconds
	Delay           int               `json:"delay,omitempty" yaml:"delay,omitempty"`     // milliseconds
	Headers         map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // Default headers for all requests
	ContinueOnError *bool             `json:"continueOnError,omitempty" yaml:"continueOnError,omitempty"`
	Verbose         *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// DefaultMaxRedirects is used when no redirect limit was configured
const DefaultMaxRedirects = 50

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// IntPtr returns a pointer to an int value
func IntPtr(i int) *int {
	return &i
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetInclude returns the include setting, defaulting to false
func (c *Config) GetInclude() bool {
	return getBool(c.Include, false)
}

// GetColor returns the color setting, or auto when it was never set
func (c *Config) GetColor(auto bool) bool {
	return getBool(c.Color, auto)
}

// GetCompressed returns the compressed setting, defaulting to false
func (c *Config) GetCompressed() bool {
	return getBool(c.Compressed, false)
}

// GetFollowRedirects returns the follow redirects setting, defaulting to false like curl
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, false)
}

// GetMaxRedirects returns the redirect limit, defaulting to DefaultMaxRedirects
func (c *Config) GetMaxRedirects() int {
	if c.MaxRedirects == nil {
		return DefaultMaxRedirects
	}
	return *c.MaxRedirects
}

// GetInsecure returns the insecure setting, defaulting to false
func (c *Config) GetInsecure() bool {
	return getBool(c.Insecure, false)
}

// GetContinueOnError returns the continue on error setting, defaulting to false
func (c *Config) GetContinueOnError() bool {
	return getBool(c.ContinueOnError, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitbody.yaml",
	".hitbody.yml",
	".hitbody.json",
	"hitbody.config.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file, picking the
// decoder from the extension
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.Output != "" {
		result.Output = other.Output
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.MaxRedirects != nil {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.Delay > 0 {
		result.Delay = other.Delay
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Include != nil {
		result.Include = other.Include
	}
	if other.Color != nil {
		result.Color = other.Color
	}
	if other.Compressed != nil {
		result.Compressed = other.Compressed
	}
	if other.FollowRedirects != nil {
		result.FollowRedirects = other.FollowRedirects
	}
	if other.Insecure != nil {
		result.Insecure = other.Insecure
	}
	if other.ContinueOnError != nil {
		result.ContinueOnError = other.ContinueOnError
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}

	// Merge headers
	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
