package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	ProviderGoogle = "google"
	ProviderORS    = "ors"
	ProviderStatic = "static"

	StoreNone     = "none"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Log struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
	} `koanf:"log"`

	HTTP struct {
		Port              string        `koanf:"port"`
		ReadHeaderTimeout time.Duration `koanf:"readHeaderTimeout"`
		ReadTimeout       time.Duration `koanf:"readTimeout"`
		WriteTimeout      time.Duration `koanf:"writeTimeout"`
		IdleTimeout       time.Duration `koanf:"idleTimeout"`
	} `koanf:"http"`

	Routing struct {
		Hub               string `koanf:"hub"`
		Strategy          string `koanf:"strategy"`
		MaxStops          int    `koanf:"maxStops"`
		MaxConcurrentRuns int64  `koanf:"maxConcurrentRuns"`
	} `koanf:"routing"`

	Provider struct {
		Name    string        `koanf:"name"`
		Timeout time.Duration `koanf:"timeout"`
		Google  struct {
			APIKey string `koanf:"apiKey"`
		} `koanf:"google"`
		ORS struct {
			APIKey  string `koanf:"apiKey"`
			BaseURL string `koanf:"baseUrl"`
			Country string `koanf:"country"`
		} `koanf:"ors"`
		Static struct {
			TablePath string `koanf:"tablePath"`
		} `koanf:"static"`
	} `koanf:"provider"`

	Stops struct {
		Store    string `koanf:"store"`
		SeedPath string `koanf:"seedPath"`
	} `koanf:"stops"`

	Postgres struct {
		URL string `koanf:"url"`
	} `koanf:"postgres"`

	Redis struct {
		URL string `koanf:"url"`
		Key string `koanf:"key"`
	} `koanf:"redis"`
}

// envKeys maps the service's environment variable names onto config paths.
var envKeys = map[string]string{
	"LOG_LEVEL":            "log.level",
	"LOG_PRETTY":           "log.pretty",
	"PORT":                 "http.port",
	"HUB_ADDRESS":          "routing.hub",
	"ROUTING_STRATEGY":     "routing.strategy",
	"MAX_STOPS":            "routing.maxStops",
	"MAX_CONCURRENT_RUNS":  "routing.maxConcurrentRuns",
	"TRAVEL_TIME_PROVIDER": "provider.name",
	"PROVIDER_TIMEOUT":     "provider.timeout",
	"GOOGLE_MAPS_API_KEY":  "provider.google.apiKey",
	"ORS_API_KEY":          "provider.ors.apiKey",
	"ORS_BASE_URL":         "provider.ors.baseUrl",
	"STATIC_TABLE_PATH":    "provider.static.tablePath",
	"STOP_STORE":           "stops.store",
	"SEED_PATH":            "stops.seedPath",
	"DATABASE_URL":         "postgres.url",
	"REDIS_URL":            "redis.url",
	"REDIS_STOPS_KEY":      "redis.key",
}

// Load reads .env (if present), then config.yaml from the first search path
// containing it (if any), then applies environment overrides.
func Load(searchPaths ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if len(searchPaths) == 0 {
		searchPaths = []string{"config", "."}
	}

	k := koanf.New(".")

	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := k.Load(file.Provider(candidate), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config: read %s: %w", candidate, err)
		}
		break
	}

	err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[key]
			if !ok {
				return "", nil
			}
			return path, value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load config: env: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, fmt.Errorf("load config: unmarshal: %w", err)
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	// Timeouts are tuned for cold route computation (n^2 external API calls).
	if c.HTTP.ReadHeaderTimeout == 0 {
		c.HTTP.ReadHeaderTimeout = 5 * time.Second
	}
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 120 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Routing.Strategy == "" {
		c.Routing.Strategy = "shortest-path"
	}
	if c.Routing.MaxStops == 0 {
		c.Routing.MaxStops = 25
	}
	if c.Routing.MaxConcurrentRuns == 0 {
		c.Routing.MaxConcurrentRuns = 4
	}
	if c.Provider.Name == "" {
		c.Provider.Name = ProviderGoogle
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Provider.ORS.BaseURL == "" {
		c.Provider.ORS.BaseURL = "https://api.openrouteservice.org"
	}
	if c.Stops.Store == "" {
		c.Stops.Store = StoreNone
	}
	if c.Stops.SeedPath == "" {
		c.Stops.SeedPath = "data/seeds/stops.json"
	}
	if c.Redis.Key == "" {
		c.Redis.Key = "route-optimizer:stops"
	}
}

// ValidateProvider checks that the selected travel-time provider has the
// credentials or data it needs.
func (c *Config) ValidateProvider() error {
	switch c.Provider.Name {
	case ProviderGoogle:
		if strings.TrimSpace(c.Provider.Google.APIKey) == "" {
			return errors.New("GOOGLE_MAPS_API_KEY is required for the google provider")
		}
	case ProviderORS:
		if strings.TrimSpace(c.Provider.ORS.APIKey) == "" {
			return errors.New("ORS_API_KEY is required for the ors provider")
		}
	case ProviderStatic:
		if strings.TrimSpace(c.Provider.Static.TablePath) == "" {
			return errors.New("STATIC_TABLE_PATH is required for the static provider")
		}
	default:
		return fmt.Errorf("unknown travel time provider %q", c.Provider.Name)
	}
	return nil
}
