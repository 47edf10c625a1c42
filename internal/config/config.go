package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Kafka    KafkaConfig
	Security SecurityConfig
	Harvest  HarvestConfig
}

type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type LoggingConfig struct {
	Level     string `validate:"omitempty,oneof=trace debug dbg info warn warning error err"`
	Format    string `validate:"oneof=text json"`
	Directory string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string `validate:"required"`
	// Topics are consumed and dispatched to the handler registry.
	Topics       []string `validate:"dive,required"`
	Publish      bool
	BatchTimeout time.Duration `validate:"gte=0"`
}

type SecurityConfig struct {
	JWTSecret    string
	JWTPublicKey string
	// HarvestRole, when set, must be present in the token to trigger a harvest.
	HarvestRole string
}

type HarvestConfig struct {
	// Interval between scheduled runs of every source; zero disables the schedule.
	Interval  time.Duration `validate:"gte=0"`
	Timeout   time.Duration `validate:"gt=0"`
	RateLimit float64       `validate:"gte=0"`
	Burst     int           `validate:"gte=0"`
	UserAgent string
	// Sources restricts the registered adapters; empty enables all of them.
	Sources  []string
	BaseURLs map[string]string
}

// BaseURL returns the configured override for source or fallback.
func (h HarvestConfig) BaseURL(source, fallback string) string {
	if v := strings.TrimSpace(h.BaseURLs[strings.ToLower(source)]); v != "" {
		return v
	}
	return fallback
}

// Enabled reports whether source should be registered.
func (h HarvestConfig) Enabled(source string) bool {
	if len(h.Sources) == 0 {
		return true
	}
	for _, s := range h.Sources {
		if strings.EqualFold(s, source) {
			return true
		}
	}
	return false
}

const sourceURLPrefix = "SOURCE_"
const sourceURLSuffix = "_BASE_URL"

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format:    strings.ToLower(getEnv("LOG_FORMAT", "text")),
			Directory: getEnv("LOG_DIRECTORY", "./logs"),
		},
		Kafka: KafkaConfig{
			Brokers:      kafkaBrokers(),
			GroupID:      getEnv("KAFKA_GROUP_ID", "poiharvest"),
			Topics:       splitList(getEnv("KAFKA_TOPICS", "harvest.requested")),
			Publish:      getBool("KAFKA_PUBLISH", true),
			BatchTimeout: getDuration("KAFKA_BATCH_TIMEOUT", 50*time.Millisecond),
		},
		Security: SecurityConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			JWTPublicKey: strings.ReplaceAll(os.Getenv("JWT_PUBLIC_KEY"), `\n`, "\n"),
			HarvestRole:  strings.TrimSpace(os.Getenv("HARVEST_ROLE")),
		},
		Harvest: HarvestConfig{
			Interval:  getDuration("HARVEST_INTERVAL", 0),
			Timeout:   getDuration("HARVEST_TIMEOUT", 2*time.Minute),
			RateLimit: getFloat("HARVEST_RATE_LIMIT", 2),
			Burst:     getInt("HARVEST_BURST", 1),
			UserAgent: os.Getenv("HARVEST_USER_AGENT"),
			Sources:   splitList(os.Getenv("HARVEST_SOURCES")),
			BaseURLs:  sourceBaseURLs(os.Environ()),
		},
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// kafkaBrokers accepts KAFKA_BROKERS and the singular KAFKA_BROKER.
func kafkaBrokers() []string {
	if brokers := splitList(os.Getenv("KAFKA_BROKERS")); len(brokers) > 0 {
		return brokers
	}
	return splitList(os.Getenv("KAFKA_BROKER"))
}

// sourceBaseURLs collects SOURCE_<NAME>_BASE_URL overrides keyed by lower-case name.
func sourceBaseURLs(environ []string) map[string]string {
	urls := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, sourceURLPrefix) || !strings.HasSuffix(key, sourceURLSuffix) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, sourceURLPrefix), sourceURLSuffix)
		if name == "" || strings.TrimSpace(value) == "" {
			continue
		}
		urls[strings.ToLower(name)] = strings.TrimSpace(value)
	}
	return urls
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
