package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port int

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	AccessTokenSecret []byte
	TokenTTL          time.Duration

	StripeSecretKey string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string

	LegacyErrorResponses bool
	PublicMenuDelete     bool
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Notice: .env file not loaded: %v. Using system environment variables", err)
	}

	return &Config{
		Port: EnvIntDefault("PORT", 5000),

		StoreDriver:   strings.ToLower(EnvDefault("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: EnvDefault("MONGO_DATABASE", "bistroDB"),

		AccessTokenSecret: []byte(os.Getenv("ACCESS_TOKEN_SECRET")),
		TokenTTL:          EnvDurationDefault("TOKEN_TTL", 10*time.Hour),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "menus"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		LegacyErrorResponses: EnvBoolDefault("LEGACY_ERROR_RESPONSES", false),
		PublicMenuDelete:     EnvBoolDefault("PUBLIC_MENU_DELETE", false),
	}
}

// ValidateStore checks what every command that touches the database needs.
func (c *Config) ValidateStore() error {
	var errs []error
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, missing("DATABASE_URL"))
		}
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, missing("MONGO_URI"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	return errors.Join(errs...)
}

// ValidateServe checks everything the HTTP server needs.
func (c *Config) ValidateServe() error {
	errs := []error{c.ValidateStore()}
	if len(c.AccessTokenSecret) == 0 {
		errs = append(errs, missing("ACCESS_TOKEN_SECRET"))
	}
	if c.StripeSecretKey == "" {
		errs = append(errs, missing("STRIPE_SECRET_KEY"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func missing(name string) error {
	return fmt.Errorf("missing required env %s", name)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
