// Package config handles configuration loading and management for hitbody.
//
// It provides functionality for:
//   - Loading configuration from .hitbody.yaml, .hitbody.yml or .hitbody.json files
//   - Default configuration values
//   - Merging command line overrides over file settings
package config
