package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const ENV_PROD = "prod"

// Server config
const HTTP_ADDR = ":8080"

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Cached venues carry their bookings, so keep them short-lived.
const VENUE_CACHE_TTL_MINUTES = 5

// Venues Refresher config
const VENUES_REFRESHER_SCHEDULE_MINUTES = 10

// Booking config
const HORIZON_DAYS = 90
const CHECKOUT_POLICY = "blocked"
const SESSION_TTL_MINUTES = 30

// Holidaze API
const HOLIDAZE_ENDPOINT_BASE_V2 = "https://v2.api.noroff.dev"

const LOG_LEVEL = "info"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const VENUES_RESOURCE = "venues.json"

// Config is the runtime configuration: the defaults above, overridden by the environment.
type Config struct {
	Env                     string `validate:"required"`
	HTTPAddr                string `validate:"required"`
	HolidazeAPIBase         string `validate:"required,url"`
	HolidazeAPIKey          string `validate:"required_if=Env prod"`
	RedisAddr               string `validate:"required"`
	RedisPassword           string
	RedisDB                 int `validate:"min=0"`
	VenueCacheTTL           time.Duration
	VenuesRefresherSchedule time.Duration `validate:"gt=0"`
	HorizonDays             int           `validate:"min=0,max=730"`
	CheckoutPolicy          string        `validate:"oneof=blocked turnover"`
	SessionTTL              time.Duration `validate:"gt=0"`
	LogLevel                string        `validate:"oneof=trace debug info warn warning error fatal panic"`
}

func (c *Config) IsProd() bool {
	return c.Env == ENV_PROD
}

// Load reads the configuration for env, loading a .env file from the project root when
// not in prod. Variables already set in the environment win over .env.
func Load(env string) (*Config, error) {
	if env != ENV_PROD {
		// A missing .env is fine.
		_ = godotenv.Load(filepath.Join(BaseDir(), ".env"))
	}

	cfg := &Config{
		Env:             env,
		HTTPAddr:        getString("HTTP_ADDR", HTTP_ADDR),
		HolidazeAPIBase: getString("HOLIDAZE_API_BASE", HOLIDAZE_ENDPOINT_BASE_V2),
		HolidazeAPIKey:  os.Getenv("HOLIDAZE_API_KEY"),
		RedisAddr:       getString("REDIS_ADDR", REDIS_DB_ADDRESS),
		RedisPassword:   getString("REDIS_PASSWORD", REDIS_DB_PASSWORD),
		CheckoutPolicy:  getString("CHECKOUT_POLICY", CHECKOUT_POLICY),
		LogLevel:        getString("LOG_LEVEL", LOG_LEVEL),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", REDIS_DB); err != nil {
		return nil, err
	}
	if cfg.HorizonDays, err = getInt("HORIZON_DAYS", HORIZON_DAYS); err != nil {
		return nil, err
	}
	if cfg.VenueCacheTTL, err = getMinutes("VENUE_CACHE_TTL_MINUTES", VENUE_CACHE_TTL_MINUTES); err != nil {
		return nil, err
	}
	if cfg.VenuesRefresherSchedule, err = getMinutes("VENUES_REFRESHER_SCHEDULE_MINUTES", VENUES_REFRESHER_SCHEDULE_MINUTES); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getMinutes("SESSION_TTL_MINUTES", SESSION_TTL_MINUTES); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getMinutes(key string, def int) (time.Duration, error) {
	n, err := getInt(key, def)
	return time.Duration(n) * time.Minute, err
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
