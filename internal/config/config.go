// Package config loads runtime settings from configs/config.yml and the
// environment using viper. Settings are read once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Token modes.
const (
	TokenModeJWT  = "jwt"
	TokenModeDemo = "demo"
)

const envPrefix = "PHONEAUTH"

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the user store backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// AuthConfig controls password hashing and token issuance.
type AuthConfig struct {
	TokenMode  string        `mapstructure:"token_mode"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// AdminConfig holds the shared secret for the diagnostic routes.
type AdminConfig struct {
	Secret string `mapstructure:"secret"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Log     LogConfig     `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.dsn", "sqlite:///./app.db")
	v.SetDefault("auth.token_mode", TokenModeJWT)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.bcrypt_cost", 0)
	v.SetDefault("admin.secret", "devsecret")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173"})
}

// bindLegacyEnv maps the plain environment names used by existing
// deployments onto config keys.
func bindLegacyEnv(v *viper.Viper) error {
	for key, env := range map[string]string{
		"storage.dsn":      "DATABASE_URL",
		"admin.secret":     "ADMIN_SECRET",
		"server.port":      "PORT",
		"auth.signing_key": "JWT_SECRET",
	} {
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}

// Load reads config.yml from the given directories (configs/ when none are
// given), overlays environment variables and validates the result. A missing
// config file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	driver, dsn, err := ResolveStorage(c.Storage.Driver, c.Storage.DSN)
	if err != nil {
		return err
	}
	c.Storage.Driver, c.Storage.DSN = driver, dsn

	switch c.Auth.TokenMode {
	case TokenModeJWT:
		if c.Auth.SigningKey == "" {
			return errors.New("auth.signing_key (or JWT_SECRET) is required when auth.token_mode is jwt")
		}
	case TokenModeDemo:
	default:
		return fmt.Errorf("unknown auth.token_mode %q", c.Auth.TokenMode)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("cors.allowed_origins: %q must start with http:// or https://", origin)
		}
	}
	return nil
}

// ResolveStorage returns the driver and driver-specific DSN for a storage
// setting. When driver is empty it is inferred from the DSN scheme:
// "sqlite:///path", "postgres://..." / "postgresql://..." or "memory".
func ResolveStorage(driver, dsn string) (string, string, error) {
	if driver == "" {
		switch {
		case dsn == "" || dsn == DriverMemory:
			driver = DriverMemory
		case strings.HasPrefix(dsn, "sqlite://"):
			driver = DriverSQLite
		case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
			driver = DriverPostgres
		default:
			return "", "", fmt.Errorf("cannot infer storage driver from dsn %q", dsn)
		}
	}

	switch driver {
	case DriverMemory:
		return DriverMemory, "", nil
	case DriverSQLite:
		path := dsn
		if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
			// sqlite:///./app.db -> ./app.db, sqlite:////abs/app.db -> /abs/app.db
			path = strings.TrimPrefix(rest, "/")
		}
		if path == "" {
			return "", "", errors.New("sqlite dsn has no path")
		}
		return DriverSQLite, path, nil
	case DriverPostgres:
		if dsn == "" {
			return "", "", errors.New("postgres dsn is empty")
		}
		return DriverPostgres, dsn, nil
	default:
		return "", "", fmt.Errorf("unknown storage driver %q", driver)
	}
}
