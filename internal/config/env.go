package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loads configuration from the optional YAML file, then environment
// variables, then flags; later sources win
func Load(flags Flags) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	cfg := defaults()

	if flags.ConfigPath != "" {
		file, err := loadFile(flags.ConfigPath)
		if err != nil {
			return nil, err
		}

		cfg.applyFile(file)
	}

	cfg.applyEnv()

	if flags.Port != "" {
		cfg.Port = flags.Port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:        defaultPort,
		Environment: defaultEnvironment,
		RateLimit:   defaultRateLimit,
		RedisPrefix: defaultRedisPrefix,
		Classifiers: ClassifierSettings{
			ServerName:    defaultServerName,
			LoginPattern:  defaultLoginPattern,
			LogoutPattern: defaultLogoutPattern,
		},
	}
}

func (c *Config) applyEnv() {
	setString(&c.Port, "PORT")
	setString(&c.UpstreamURL, "UPSTREAM_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.RedisPrefix, "REDIS_PREFIX")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.RateLimit, "RATE_LIMIT")
	setString(&c.Classifiers.ServerName, "SERVER_NAME")
	setString(&c.Classifiers.LoginPattern, "LOGIN_PATTERN")
	setString(&c.Classifiers.LogoutPattern, "LOGOUT_PATTERN")

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
}

// checks the settings every deployment needs
func (c *Config) Validate() error {
	if c.UpstreamURL == "" {
		return fmt.Errorf("UPSTREAM_URL environment variable is required")
	}

	if c.Environment == "production" && len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_ORIGINS environment variable is required in production")
	}

	if _, err := c.Classifiers.Compile(); err != nil {
		return err
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
