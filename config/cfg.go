package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jekabolt/privshop-seller/internal/analytics"
	httpapi "github.com/jekabolt/privshop-seller/internal/api/http"
	authjwt "github.com/jekabolt/privshop-seller/internal/auth/jwt"
	"github.com/jekabolt/privshop-seller/internal/dashboard"
	"github.com/jekabolt/privshop-seller/internal/payout"
	"github.com/jekabolt/privshop-seller/internal/ratelimit"
	"github.com/jekabolt/privshop-seller/internal/store"
	"github.com/jekabolt/privshop-seller/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	DB        store.Config     `mapstructure:"db"`
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	Auth      authjwt.Config   `mapstructure:"auth"`
	Analytics analytics.Config `mapstructure:"analytics"`
	RateLimit ratelimit.Config `mapstructure:"ratelimit"`
	Payout    payout.Config    `mapstructure:"payout"`
	Referral  dashboard.Config `mapstructure:"referral"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values; a .env file in the
// working directory is loaded first when present.
// Nested config keys use double underscore, e.g., DB__DSN for db.dsn
func LoadConfig(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %v", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			// If config file doesn't exist, continue with env vars only
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/privshop-seller")
		v.AddConfigPath("/etc/privshop-seller")
		_ = v.ReadInConfig()
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", store.DriverPostgres)
	v.SetDefault("db.max_open_connections", 10)
	v.SetDefault("db.max_idle_connections", 5)

	v.SetDefault("http.port", "8081")

	ac := analytics.DefaultConfig()
	v.SetDefault("analytics.top_n", ac.TopN)
	v.SetDefault("analytics.series_window", ac.SeriesWindow)
	v.SetDefault("analytics.locale", ac.Locale)

	rc := ratelimit.DefaultConfig()
	v.SetDefault("ratelimit.window", rc.Window)
	v.SetDefault("ratelimit.max_requests", rc.MaxRequests)
	v.SetDefault("ratelimit.key_prefix", rc.KeyPrefix)

	pc := payout.DefaultConfig()
	v.SetDefault("payout.worker_interval", pc.WorkerInterval)
	v.SetDefault("payout.topic", pc.Topic)
}

// bindEnvVars binds environment variables to config keys
// This allows using both nested keys (DB__DSN) and flat keys (DB_DSN)
func bindEnvVars(v *viper.Viper) {
	// DB
	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN", "DATABASE_URL")
	v.BindEnv("db.automigrate", "DB_AUTOMIGRATE")
	v.BindEnv("db.max_open_connections", "DB_MAX_OPEN_CONNECTIONS")
	v.BindEnv("db.max_idle_connections", "DB_MAX_IDLE_CONNECTIONS")
	v.BindEnv("db.tls_ca_path", "DB_TLS_CA_PATH")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT", "PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")

	// Analytics
	v.BindEnv("analytics.top_n", "ANALYTICS_TOP_N")
	v.BindEnv("analytics.series_window", "ANALYTICS_SERIES_WINDOW")
	v.BindEnv("analytics.locale", "ANALYTICS_LOCALE")

	// Rate limit
	v.BindEnv("ratelimit.window", "RATELIMIT_WINDOW")
	v.BindEnv("ratelimit.max_requests", "RATELIMIT_MAX_REQUESTS")
	v.BindEnv("ratelimit.redis_addr", "RATELIMIT_REDIS_ADDR", "REDIS_ADDR")
	v.BindEnv("ratelimit.redis_db", "RATELIMIT_REDIS_DB")
	v.BindEnv("ratelimit.key_prefix", "RATELIMIT_KEY_PREFIX")

	// Payout
	v.BindEnv("payout.worker_interval", "PAYOUT_WORKER_INTERVAL")
	v.BindEnv("payout.brokers", "PAYOUT_BROKERS", "KAFKA_BROKERS")
	v.BindEnv("payout.topic", "PAYOUT_TOPIC")

	// Referral
	v.BindEnv("referral.base_url", "REFERRAL_BASE_URL")
}
