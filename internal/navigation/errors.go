// internal/navigation/errors.go
package navigation

import "errors"

var (
	// ErrUnknownScreen is returned when a screen id has no registered builder,
	// including when a sentinel is passed where a concrete screen is required.
	ErrUnknownScreen = errors.New("unknown screen")
	// ErrEmptyKeyword is returned when a control is declared without a keyword.
	ErrEmptyKeyword = errors.New("control keyword must not be empty")
	// ErrMissingDefaultControls is returned when a screen lacks a control set
	// for DefaultLanguage.
	ErrMissingDefaultControls = errors.New("screen has no default-language controls")
)
