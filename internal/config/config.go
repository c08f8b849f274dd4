// Package config loads the callwatch configuration from an optional YAML
// file overlaid with CALLWATCH_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/callwatch/callwatch/internal/classify"
	"github.com/callwatch/callwatch/internal/core/domain"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Reporter ReporterConfig `koanf:"reporter"`
	Local    LocalConfig    `koanf:"local"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type StorageConfig struct {
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// Disabled reports whether the result store is turned off. Setting the
// path to "" or "off" runs callwatch store-less: call results are logged
// instead of persisted.
func (s SQLiteConfig) Disabled() bool {
	return s.Path == "" || s.Path == "off"
}

// ReporterConfig is the externally supplied classification policy.
type ReporterConfig struct {
	Statuses                  []int    `koanf:"statuses"`
	Series                    []string `koanf:"series"`
	IgnoreInternalServerError bool     `koanf:"ignore_internal_server_error"`
}

// LocalConfig identifies the running caller instance.
type LocalConfig struct {
	Namespace string `koanf:"namespace"`
	Service   string `koanf:"service"`
	BindIP    string `koanf:"bind_ip"`
}

// ClassifyConfig converts the reporter section into the classifier's
// value config.
func (r ReporterConfig) ClassifyConfig() classify.Config {
	return classify.Config{
		Statuses:                  r.Statuses,
		Series:                    r.Series,
		IgnoreInternalServerError: r.IgnoreInternalServerError,
	}
}

// Identity converts the local section into the process identity.
func (l LocalConfig) Identity() domain.LocalIdentity {
	return domain.LocalIdentity{
		Namespace: l.Namespace,
		Service:   l.Service,
		BindIP:    l.BindIP,
	}
}

// Load reads configuration from path (skipped when empty) and the
// environment, then applies defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment variables override the file. Double underscores nest,
	// so keys containing underscores stay addressable:
	// CALLWATCH_SERVER__PORT=8640 -> server.port
	// CALLWATCH_LOCAL__BIND_IP=10.0.0.7 -> local.bind_ip
	if err := k.Load(env.Provider("CALLWATCH_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "CALLWATCH_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8640)
	}
	if !k.Exists("storage.sqlite.path") {
		k.Set("storage.sqlite.path", "./data/callwatch.db")
	}
	if !k.Exists("local.namespace") {
		k.Set("local.namespace", "default")
	}
	if !k.Exists("local.service") {
		k.Set("local.service", "callwatch")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
