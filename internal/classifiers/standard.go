package classifiers

import (
	"fmt"

	"codeberg.org/algorave/errorstack/internal/parser"
)

// Registrar is implemented by *parser.Chain.
type Registrar interface {
	Register(classifier parser.Classifier) error
}

// returns the standard classifiers in evaluation order
func Standard(cfg Config) []parser.Classifier {
	return []parser.Classifier{
		NewAuth(cfg),
		NotFound,
		NewConnectionRefused(cfg),
		Validation,
		RestDefault,
	}
}

// registers the standard classifiers; the chain's default runs after them
func RegisterStandard(chain Registrar, cfg Config) error {
	for i, classifier := range Standard(cfg) {
		if err := chain.Register(classifier); err != nil {
			return fmt.Errorf("failed to register classifier %d: %w", i, err)
		}
	}

	return nil
}
