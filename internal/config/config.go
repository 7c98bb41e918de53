// Package config loads arbor settings from an optional YAML file and ARBOR_*
// environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/arbor/pkg/codegen"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ARBOR_"

// Config holds everything the CLI and servers need to build an engine.
type Config struct {
	LogLevel        string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	DefaultLanguage string `mapstructure:"default_language" validate:"language"`
	ModelsDir       string `mapstructure:"models_dir" validate:"required"`
	Store           string `mapstructure:"store" validate:"oneof=loam memory file redis badger"`
	EncryptionKey   string `mapstructure:"encryption_key" validate:"omitempty,hexadecimal,len=64"`
	BatchWorkers    int    `mapstructure:"batch_workers" validate:"gte=1,lte=1024"`

	Redis  RedisConfig  `mapstructure:"redis"`
	Badger BadgerConfig `mapstructure:"badger"`
	HTTP   HTTPConfig   `mapstructure:"http"`
}

// RedisConfig configures the Redis model store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
	Enabled  bool          `mapstructure:"-"`
}

// BadgerConfig configures the embedded Badger model store.
type BadgerConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		LogLevel:        "info",
		DefaultLanguage: "python",
		ModelsDir:       ".",
		Store:           "loam",
		BatchWorkers:    4,
		Redis:           RedisConfig{Addr: "localhost:6379", Prefix: "arbor:"},
		Badger:          BadgerConfig{Path: ".arbor/badger"},
		HTTP:            HTTPConfig{Addr: ":8080", ShutdownTimeout: 5 * time.Second},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		lang := fl.Field().String()
		return lang == "" || codegen.Known(lang)
	})
}

// Load reads path (skipped when empty), applies environment overrides from
// environ (KEY=VALUE pairs, usually os.Environ()) and validates the result.
func Load(path string, environ []string) (Config, error) {
	raw := map[string]any{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}
	applyEnv(raw, environ)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Redis.Enabled = cfg.Store == "redis"

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return err
}

// Key decodes EncryptionKey. It returns nil when no key is set.
func (c Config) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	return hex.DecodeString(c.EncryptionKey)
}

// applyEnv sets raw entries from ARBOR_* variables. Nested keys use a double
// underscore: ARBOR_REDIS__ADDR sets redis.addr.
func applyEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		path := strings.Split(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__")
		if !knownPath(reflect.TypeOf(Config{}), path) {
			continue
		}
		m := raw
		for _, part := range path[:len(path)-1] {
			next, ok := m[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[part] = next
			}
			m = next
		}
		m[path[len(path)-1]] = value
	}
}

// knownPath reports whether path names a mapstructure field of t, so that
// unrelated ARBOR_ variables do not trip ErrorUnused.
func knownPath(t reflect.Type, path []string) bool {
	for i, part := range path {
		found := false
		for j := range t.NumField() {
			f := t.Field(j)
			if f.Tag.Get("mapstructure") != part {
				continue
			}
			found = true
			if i < len(path)-1 {
				if f.Type.Kind() != reflect.Struct || f.Type == reflect.TypeOf(time.Duration(0)) {
					return false
				}
				t = f.Type
			}
			break
		}
		if !found {
			return false
		}
	}
	return true
}
