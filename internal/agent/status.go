// internal/agent/status.go
package agent

import "github.com/xkilldash9x/rumble-cli/internal/navigation"

// Status is the structured result of one handled input. Every path through
// Handle ends in exactly one of these; none of them terminate the process.
type Status string

const (
	// StatusCompleted means the target was seen and clicked once.
	StatusCompleted Status = "COMPLETED"
	// StatusNoMatch means no control on the current screen matched the input.
	// The navigator was not touched.
	StatusNoMatch Status = "NO_MATCH"
	// StatusFailed means the transition could not be applied. The navigator
	// was left unchanged.
	StatusFailed Status = "FAILED"

	// -- Collaborator failures (the navigator has already advanced) --

	StatusCaptureFailed  Status = "CAPTURE_FAILED"
	StatusAssetFailed    Status = "ASSET_FAILED"
	StatusInputFailed    Status = "INPUT_FAILED"
	StatusTargetNotFound Status = "TARGET_NOT_FOUND"
	StatusCancelled      Status = "CANCELLED"
	// StatusPanicked means a collaborator panicked; the panic was recovered.
	StatusPanicked Status = "PANICKED"
)

// AdvisoryAmbiguous is attached when several controls matched the input and
// the first declared one was taken.
const AdvisoryAmbiguous navigation.Advisory = "AMBIGUOUS_MATCH"

// Advanced reports whether the navigator moved for this status.
func (s Status) Advanced() bool {
	switch s {
	case StatusNoMatch, StatusFailed, "":
		return false
	default:
		return true
	}
}
