package config

import (
	"fmt"
	"regexp"

	"codeberg.org/algorave/errorstack/internal/classifiers"
)

// converts the settings into a classifiers.Config, compiling the URL patterns
func (s ClassifierSettings) Compile() (classifiers.Config, error) {
	cfg := classifiers.Config{ServerName: s.ServerName}

	if s.LoginPattern != "" {
		re, err := regexp.Compile(s.LoginPattern)
		if err != nil {
			return classifiers.Config{}, fmt.Errorf("invalid login pattern %q: %w", s.LoginPattern, err)
		}

		cfg.LoginPattern = re
	}

	if s.LogoutPattern != "" {
		re, err := regexp.Compile(s.LogoutPattern)
		if err != nil {
			return classifiers.Config{}, fmt.Errorf("invalid logout pattern %q: %w", s.LogoutPattern, err)
		}

		cfg.LogoutPattern = re
	}

	return cfg, nil
}
