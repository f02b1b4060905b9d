// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-shamir.
//
// go-shamir is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-shamir/pkg/crypto/rand"
	"github.com/jeremyhahn/go-shamir/pkg/field"
)

// Config represents the complete sss configuration
type Config struct {
	Field    FieldConfig    `yaml:"field"`
	Entropy  EntropyConfig  `yaml:"entropy"`
	Logging  LoggingConfig  `yaml:"logging"`
	Output   string         `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// FieldConfig selects the prime modulus
type FieldConfig struct {
	// Modulus in decimal or 0x hex. Empty selects 2^127-1.
	Modulus string `yaml:"modulus"`
}

// EntropyConfig selects the random source for secrets and coefficients
type EntropyConfig struct {
	Mode     string        `yaml:"mode"`     // auto, software, tpm2, pkcs11
	Fallback string        `yaml:"fallback"` // used when the primary fails
	TPM2     *TPM2Config   `yaml:"tpm2,omitempty"`
	PKCS11   *PKCS11Config `yaml:"pkcs11,omitempty"`
}

// TPM2Config contains TPM 2.0 RNG settings
type TPM2Config struct {
	DevicePath     string `yaml:"device_path"`
	MaxRequestSize int    `yaml:"max_request_size"`
	Simulator      bool   `yaml:"simulator"`
	SimulatorHost  string `yaml:"simulator_host"`
	SimulatorPort  int    `yaml:"simulator_port"`
}

// PKCS11Config contains PKCS#11 RNG settings
type PKCS11Config struct {
	Library string `yaml:"library"`
	Slot    uint   `yaml:"slot"`
	Pin     string `yaml:"pin"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls metrics collection
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Dump writes the collected metrics to stderr when a command exits.
	Dump bool `yaml:"dump"`
}

// DefaultsConfig holds the split parameters used when flags are omitted
type DefaultsConfig struct {
	Shares    int `yaml:"shares"`
	Threshold int `yaml:"threshold"`
	Digits    int `yaml:"digits"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Entropy: EntropyConfig{
			Mode: string(rand.ModeAuto),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: "text",
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Defaults: DefaultsConfig{
			Shares:    5,
			Threshold: 3,
			Digits:    20,
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable
// overrides. Keys missing from the file keep their Default values. An empty
// path loads the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 - Config file path is provided by the user
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if modulus := os.Getenv("SSS_MODULUS"); modulus != "" {
		cfg.Field.Modulus = modulus
	}
	if mode := os.Getenv("SSS_ENTROPY_MODE"); mode != "" {
		cfg.Entropy.Mode = mode
	}

	// Logging
	if level := os.Getenv("SSS_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("SSS_LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}

	if output := os.Getenv("SSS_OUTPUT"); output != "" {
		cfg.Output = output
	}
	if enabled := os.Getenv("SSS_METRICS_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			log.Printf("Warning: invalid SSS_METRICS_ENABLED value %q, using %t: %v",
				enabled, cfg.Metrics.Enabled, err)
		} else {
			cfg.Metrics.Enabled = v
		}
	}

	// TPM2 settings
	if tpmPath := os.Getenv("TPM_DEVICE_PATH"); tpmPath != "" {
		if cfg.Entropy.TPM2 == nil {
			cfg.Entropy.TPM2 = &TPM2Config{}
		}
		cfg.Entropy.TPM2.DevicePath = tpmPath
	}

	// PKCS#11 settings
	if pkcs11Lib := os.Getenv("PKCS11_LIBRARY"); pkcs11Lib != "" {
		if cfg.Entropy.PKCS11 == nil {
			cfg.Entropy.PKCS11 = &PKCS11Config{}
		}
		cfg.Entropy.PKCS11.Library = pkcs11Lib
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := field.Parse(c.Field.Modulus); err != nil {
		return err
	}

	mode, err := rand.ParseMode(c.Entropy.Mode)
	if err != nil {
		return err
	}
	if c.Entropy.Fallback != "" {
		if _, err := rand.ParseMode(c.Entropy.Fallback); err != nil {
			return fmt.Errorf("fallback: %w", err)
		}
	}
	if mode == rand.ModePKCS11 && (c.Entropy.PKCS11 == nil || c.Entropy.PKCS11.Library == "") {
		return fmt.Errorf("PKCS11 library is required when entropy mode is pkcs11")
	}
	if t := c.Entropy.TPM2; t != nil && (t.MaxRequestSize < 0 || t.MaxRequestSize > rand.MaxTPM2RequestSize) {
		return fmt.Errorf("tpm2.max_request_size must be in [0, %d], got %d", rand.MaxTPM2RequestSize, t.MaxRequestSize)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logging.Format)
	}

	validOutputs := map[string]bool{
		"text": true, "json": true, "table": true,
	}
	if !validOutputs[strings.ToLower(c.Output)] {
		return fmt.Errorf("invalid output format: %s (must be text, json, or table)", c.Output)
	}

	d := c.Defaults
	if d.Shares < 1 {
		return fmt.Errorf("defaults.shares must be at least 1, got %d", d.Shares)
	}
	if d.Threshold < 1 || d.Threshold > d.Shares {
		return fmt.Errorf("defaults.threshold must be in [1, %d], got %d", d.Shares, d.Threshold)
	}
	if d.Digits < 1 {
		return fmt.Errorf("defaults.digits must be at least 1, got %d", d.Digits)
	}

	return nil
}

// FieldValue returns the configured prime field.
func (c *Config) FieldValue() (*field.Field, error) {
	return field.Parse(c.Field.Modulus)
}

// RNGConfig converts the entropy section into a resolver configuration.
func (c *Config) RNGConfig() *rand.Config {
	mode, _ := rand.ParseMode(c.Entropy.Mode)
	var fallback rand.Mode
	if c.Entropy.Fallback != "" {
		fallback, _ = rand.ParseMode(c.Entropy.Fallback)
	}

	cfg := &rand.Config{Mode: mode, FallbackMode: fallback}
	if t := c.Entropy.TPM2; t != nil {
		cfg.TPM2Config = &rand.TPM2Config{
			Device:         t.DevicePath,
			MaxRequestSize: t.MaxRequestSize,
			UseSimulator:   t.Simulator,
			SimulatorHost:  t.SimulatorHost,
			SimulatorPort:  t.SimulatorPort,
		}
	}
	if p := c.Entropy.PKCS11; p != nil {
		cfg.PKCS11Config = &rand.PKCS11Config{
			Module: p.Library,
			SlotID: p.Slot,
			PIN:    p.Pin,
		}
	}
	return cfg
}
