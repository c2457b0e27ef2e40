// Package config loads the forensics configuration from a YAML file and FORENSICS_*
// environment variables, and validates it before any store is contacted.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FORENSICS_NEO4J_PASSWORD.
const EnvPrefix = "FORENSICS"

type Config struct {
	Neo4j   Neo4jConfig   `mapstructure:"neo4j"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// Neo4jConfig holds the store connection attributes. Endpoint names the database.
type Neo4jConfig struct {
	Username     string        `mapstructure:"username" validate:"required"`
	Password     string        `mapstructure:"password" validate:"required"`
	Host         string        `mapstructure:"host" validate:"required,hostname_rfc1123|ip"`
	Port         int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	Endpoint     string        `mapstructure:"endpoint" validate:"required"`
	Protocol     string        `mapstructure:"protocol" validate:"required,oneof=bolt bolt+s bolt+ssc neo4j neo4j+s neo4j+ssc"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"min=0"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout" validate:"min=0"`
}

// Address returns the driver URI, protocol://host:port.
func (c Neo4jConfig) Address() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

type SeedConfig struct {
	ChunkSize  int   `mapstructure:"chunk_size" validate:"min=1"`
	People     int   `mapstructure:"people" validate:"min=2"`
	Calls      int   `mapstructure:"calls" validate:"min=0"`
	Flights    int   `mapstructure:"flights" validate:"min=0"`
	Employment int   `mapstructure:"employment" validate:"min=0"`
	RandomSeed int64 `mapstructure:"random_seed"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=console json"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAge     int    `mapstructure:"max_age" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

type MetricsConfig struct {
	Pushgateway string `mapstructure:"pushgateway" validate:"omitempty,url"`
	Job         string `mapstructure:"job" validate:"required_with=Pushgateway"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ConfigurationError reports missing or malformed settings, by dotted key.
type ConfigurationError struct {
	Keys []string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration: %s: %v", strings.Join(e.Keys, ", "), e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("neo4j.protocol", "bolt")
	v.SetDefault("neo4j.query_timeout", 30*time.Second)
	v.SetDefault("neo4j.batch_timeout", 300*time.Second)

	v.SetDefault("seed.chunk_size", 5000)
	v.SetDefault("seed.people", 1000)
	v.SetDefault("seed.calls", 10000)
	v.SetDefault("seed.flights", 10000)
	v.SetDefault("seed.employment", 880)
	v.SetDefault("seed.random_seed", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)

	v.SetDefault("metrics.pushgateway", "")
	v.SetDefault("metrics.job", "forensics")
	v.SetDefault("tracing.enabled", false)
}

// Keys without a default must be bound explicitly for AutomaticEnv to reach Unmarshal.
var requiredKeys = []string{
	"neo4j.username",
	"neo4j.password",
	"neo4j.host",
	"neo4j.port",
	"neo4j.endpoint",
}

// Load reads the configuration file at path, when non-empty, applies environment overrides
// and validates the result. Every failure is a *ConfigurationError.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, &ConfigurationError{Keys: []string{key}, Err: err}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigurationError{Err: fmt.Errorf("failed to read config file: %w", err)}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("failed to unmarshal config: %w", err)}
	}
	if err := NewValidator().Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validator checks a Config against its struct tags.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate returns a *ConfigurationError naming every offending key, or nil.
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return &ConfigurationError{Err: errors.New("configuration is nil")}
	}

	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ConfigurationError{Err: fmt.Errorf("validation error: %w", err)}
	}

	keys := make([]string, 0, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fieldKey(fe.Namespace())
		keys = append(keys, key)
		messages = append(messages, formatValidationError(key, fe))
	}
	return &ConfigurationError{
		Keys: keys,
		Err:  fmt.Errorf("validation failed:\n  - %s", strings.Join(messages, "\n  - ")),
	}
}

func formatValidationError(key string, e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_with":
		return fmt.Sprintf("%s is required", key)
	case "min":
		return fmt.Sprintf("%s must be at least %s (got: %v)", key, e.Param(), e.Value())
	case "max":
		return fmt.Sprintf("%s must be at most %s (got: %v)", key, e.Param(), e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got: %v)", key, e.Param(), e.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL (got: %v)", key, e.Value())
	default:
		return fmt.Sprintf("%s failed validation '%s' (got: %v)", key, e.Tag(), e.Value())
	}
}

// fieldKey drops the root struct name: "Config.neo4j.port" becomes "neo4j.port".
func fieldKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return key
}
