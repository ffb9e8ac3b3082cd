package classifiers

import "regexp"

// error record types produced by the standard classifiers
const (
	TypePromoCodeMaxUses   = "App.PromoCode.MaxUsesExceeded"
	TypeInvalidLogin       = "App.Http.Auth.InvalidLoginError"
	TypeAuthRequired       = "App.Http.Auth.RequiredError"
	TypeAuthDenied         = "App.Http.Auth.DeniedError"
	TypeNotFound           = "App.Http.NotFoundError"
	TypeConnectionRefused  = "App.Http.ConnectionRefusedError"
	TypeValidation         = "App.RestApi.ValidationError"
	TypeRestDefault        = "App.RestApi.DefaultError"
	codePromoMaxUsesExceed = "PROMO_CODE_MAX_USES_EXCEEDED"
)

// Config tunes the standard classifiers.
type Config struct {
	// name used in the unreachable-server message
	ServerName string

	// request URL patterns for login and logout endpoints
	LoginPattern  *regexp.Regexp
	LogoutPattern *regexp.Regexp
}

// returns the config used when nothing is set
func DefaultConfig() Config {
	return Config{
		ServerName:    "application",
		LoginPattern:  regexp.MustCompile(`auth/login`),
		LogoutPattern: regexp.MustCompile(`auth/logout`),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()

	if c.ServerName == "" {
		c.ServerName = def.ServerName
	}

	if c.LoginPattern == nil {
		c.LoginPattern = def.LoginPattern
	}

	if c.LogoutPattern == nil {
		c.LogoutPattern = def.LogoutPattern
	}

	return c
}
