package internal

import "fmt"

// ValidationError covers malformed caller input.
type ValidationError struct {
	Message string
	Details string
}

func (e *ValidationError) Error() string { return e.Message }

// GoalMatchError is raised when no confident goal resolution exists. It
// carries up to three suggested canonical goals.
type GoalMatchError struct {
	Message     string
	Suggestions []string
}

func (e *GoalMatchError) Error() string { return e.Message }

// RateLimitError is raised when a caller exceeds its plan quota.
type RateLimitError struct {
	Message    string
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string { return e.Message }

// MealDiscoveryError is raised when the primary venue search yields
// nothing or an upstream fails irrecoverably.
type MealDiscoveryError struct {
	Message string
	Details string
}

func (e *MealDiscoveryError) Error() string { return e.Message }

// ParsingError is an unrecoverable structured-output failure.
type ParsingError struct {
	Message string
	Details string
}

func (e *ParsingError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}
