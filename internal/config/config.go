package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "CONFIG_FILE"

// Config holds runtime settings for the server and CLI.
type Config struct {
	Port     string `yaml:"port" env:"PORT"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	OCM     OCM     `yaml:"ocm"`
	Search  Search  `yaml:"search"`
	Map     Map     `yaml:"map"`
	Session Session `yaml:"session"`
}

// OCM configures the OpenChargeMap directory client.
type OCM struct {
	APIKey     string        `yaml:"api_key" env:"OCM_API_KEY"`
	BaseURL    string        `yaml:"base_url" env:"OCM_BASE_URL"`
	MaxResults int           `yaml:"max_results" env:"OCM_MAX_RESULTS"`
	Timeout    time.Duration `yaml:"timeout" env:"OCM_TIMEOUT"`
}

type Search struct {
	RadiusKm float64 `yaml:"radius_km" env:"SEARCH_RADIUS_KM"`
}

// Session bounds the in-memory map sessions held by the API.
type Session struct {
	// Idle time after which a session is evicted.
	TTL         time.Duration `yaml:"ttl" env:"SESSION_TTL"`
	MaxSessions int           `yaml:"max_sessions" env:"SESSION_MAX"`
}

// Map holds the initial and lookup viewport.
type Map struct {
	DefaultLat  float64 `yaml:"default_lat" env:"MAP_DEFAULT_LAT"`
	DefaultLng  float64 `yaml:"default_lng" env:"MAP_DEFAULT_LNG"`
	DefaultZoom int     `yaml:"default_zoom" env:"MAP_DEFAULT_ZOOM"`
	LookupZoom  int     `yaml:"lookup_zoom" env:"MAP_LOOKUP_ZOOM"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		OCM: OCM{
			BaseURL:    "https://api.openchargemap.io",
			MaxResults: 20,
			Timeout:    10 * time.Second,
		},
		Search: Search{RadiusKm: 5},
		Map: Map{
			DefaultLat:  51.5074,
			DefaultLng:  -0.1278,
			DefaultZoom: 13,
			LookupZoom:  14,
		},
		Session: Session{
			TTL:         30 * time.Minute,
			MaxSessions: 10000,
		},
	}
}

// Load starts from Default, applies the optional YAML file named by
// CONFIG_FILE and then environment overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := populateFromEnv(reflect.ValueOf(&cfg).Elem()); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("config: port is empty")
	}
	if c.OCM.MaxResults <= 0 {
		return fmt.Errorf("config: ocm max_results must be positive, got %d", c.OCM.MaxResults)
	}
	if c.OCM.Timeout <= 0 {
		return fmt.Errorf("config: ocm timeout must be positive, got %v", c.OCM.Timeout)
	}
	if c.Search.RadiusKm <= 0 {
		return fmt.Errorf("config: search radius_km must be positive, got %v", c.Search.RadiusKm)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session ttl must be positive, got %v", c.Session.TTL)
	}
	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("config: session max_sessions must be positive, got %d", c.Session.MaxSessions)
	}
	if c.Map.DefaultLat < -90 || c.Map.DefaultLat > 90 || c.Map.DefaultLng < -180 || c.Map.DefaultLng > 180 {
		return fmt.Errorf("config: map default center out of range: %v,%v", c.Map.DefaultLat, c.Map.DefaultLng)
	}
	return nil
}

func loadFromFile(path string, target *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("config: decode yaml %q: %w", path, err)
	}

	return nil
}

// populateFromEnv walks struct fields and assigns values from the env key in
// each field's `env` tag. Nested structs are walked recursively.
func populateFromEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		fieldType := t.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if fieldVal.Kind() == reflect.Struct {
			if err := populateFromEnv(fieldVal); err != nil {
				return err
			}
			continue
		}

		key := fieldType.Tag.Get("env")
		if key == "" || key == "-" {
			continue
		}

		if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
			if err := assign(fieldVal, strings.TrimSpace(val)); err != nil {
				return fmt.Errorf("config: parse %s: %w", key, err)
			}
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func assign(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type().String())
	}
	return nil
}
