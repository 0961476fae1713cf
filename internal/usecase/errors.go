package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNoRecommendations means the slate produced no valid trixie.
	ErrNoRecommendations = errors.New("no recommendations")
)
