package config

// Config is the runtime configuration of the error service.
type Config struct {
	Port           string
	UpstreamURL    string
	RedisURL       string
	RedisPrefix    string
	DatabaseURL    string
	Environment    string
	AllowedOrigins []string
	RateLimit      string

	Classifiers ClassifierSettings
}

// ClassifierSettings tunes the standard classifiers. It is the part of the
// configuration that may live in the YAML file.
type ClassifierSettings struct {
	ServerName    string `yaml:"server_name"`
	LoginPattern  string `yaml:"login_pattern"`
	LogoutPattern string `yaml:"logout_pattern"`
}

// fileConfig is the layout of the optional YAML config file
type fileConfig struct {
	Port        string             `yaml:"port"`
	UpstreamURL string             `yaml:"upstream_url"`
	RateLimit   string             `yaml:"rate_limit"`
	Classifiers ClassifierSettings `yaml:"classifiers"`
}

type Flags struct {
	ConfigPath string
	Port       string
}

const (
	defaultPort          = "8080"
	defaultEnvironment   = "development"
	defaultRateLimit     = "100-M"
	defaultRedisPrefix   = "errorstack"
	defaultServerName    = "application"
	defaultLoginPattern  = `auth/login`
	defaultLogoutPattern = `auth/logout`
)
