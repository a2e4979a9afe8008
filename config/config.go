/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names understood by the connection package.
const (
	ProviderMemory   = "memory"
	ProviderBadger   = "badger"
	ProviderDynamoDB = "dynamodb"
)

// Config holds the storage connection settings plus the ambient logging and
// metrics settings.
type Config struct {
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Storage describes how to reach the storage provider.
type Storage struct {
	Provider       string `yaml:"provider" validate:"oneof=memory badger dynamodb"`
	ApplicationKey string `yaml:"application_key"`
	PrivateKey     string `yaml:"private_key"`
	AuthToken      string `yaml:"authentication_token"`
	Cluster        string `yaml:"cluster"`
	Secure         bool   `yaml:"secure"`
	Endpoint       string `yaml:"endpoint" validate:"omitempty,hostname_port|url"`
	Region         string `yaml:"region" validate:"required_if=Provider dynamodb"`
	DataDir        string `yaml:"data_dir"`
}

type Logging struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json console"`
}

type Metrics struct {
	Datadog Datadog `yaml:"datadog"`
}

type Datadog struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace"`
}

// Default returns the settings used when nothing else is configured: an in
// memory provider with JSON info logging and metrics off.
func Default() Config {
	return Config{
		Storage: Storage{Provider: ProviderMemory},
		Logging: Logging{Enabled: true, Level: "info", Format: "json"},
	}
}

// Load reads the YAML file at path over the defaults, then applies STORAGE_*
// environment variables (a .env file in the working directory is loaded
// first if present) and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg.Storage); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the struct tags and reports every failing field.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid config:\n- %s", strings.Join(msgs, "\n- "))
}

func applyEnv(s *Storage) error {
	strs := map[string]*string{
		"STORAGE_PROVIDER":             &s.Provider,
		"STORAGE_APPLICATION_KEY":      &s.ApplicationKey,
		"STORAGE_PRIVATE_KEY":          &s.PrivateKey,
		"STORAGE_AUTHENTICATION_TOKEN": &s.AuthToken,
		"STORAGE_CLUSTER":              &s.Cluster,
		"STORAGE_ENDPOINT":             &s.Endpoint,
		"STORAGE_REGION":               &s.Region,
		"STORAGE_DATA_DIR":             &s.DataDir,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("STORAGE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STORAGE_SECURE: %w", err)
		}
		s.Secure = b
	}
	return nil
}
