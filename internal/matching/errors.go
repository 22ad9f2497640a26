package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfAction is returned when an operation targets the acting
	// user's own profile.
	ErrSelfAction = errors.New("cannot perform this action on yourself")

	// ErrUserNotFound is returned when a referenced user id does not
	// resolve to a profile.
	ErrUserNotFound = errors.New("user not found")
)

// BlockedError means the pair has an active block in either direction.
// The message deliberately reveals nothing about like/match state.
type BlockedError struct {
	ViewerID int64
	TargetID int64
}

func (e *BlockedError) Error() string {
	return "profile unavailable"
}

// IsBlocked reports whether err is (or wraps) a BlockedError.
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}

// RequirementNotMetError means a precondition of the operation is not
// satisfied, e.g. liking without a profile photo.
type RequirementNotMetError struct {
	Reason string
}

func (e *RequirementNotMetError) Error() string {
	return e.Reason
}

// IsRequirementNotMet reports whether err is (or wraps) a
// RequirementNotMetError.
func IsRequirementNotMet(err error) bool {
	var re *RequirementNotMetError
	return errors.As(err, &re)
}

// ValidationError means the request carried malformed parameters, such
// as inverted filter bounds or out-of-range coordinates.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
