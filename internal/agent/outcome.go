// internal/agent/outcome.go
package agent

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/xkilldash9x/rumble-cli/internal/navigation"
)

// Outcome describes what happened to one input.
type Outcome struct {
	ActionID string `json:"action_id"`
	Input    string `json:"input"`
	Status   Status `json:"status"`

	// Keyword of the selected control, empty on no match.
	Keyword    string `json:"keyword,omitempty"`
	Candidates int    `json:"candidates,omitempty"`

	From       navigation.ScreenID   `json:"from"`
	To         navigation.ScreenID   `json:"to"`
	Advisories []navigation.Advisory `json:"advisories,omitempty"`

	Attempts int           `json:"attempts,omitempty"`
	Position *image.Point  `json:"position,omitempty"`
	Duration time.Duration `json:"duration_ns"`

	Err error `json:"-"`
}

// ErrorText is the underlying error text, if any, for structured output.
func (o Outcome) ErrorText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Message is the short status line shown to the user.
func (o Outcome) Message() string {
	notes := o.advisoryNotes()

	var base string
	switch o.Status {
	case StatusCompleted:
		if len(notes) == 0 {
			return "Action completed successfully"
		}
		return "Action completed; " + strings.Join(notes, "; ")
	case StatusNoMatch:
		return "No match found for your query"
	case StatusFailed:
		base = "Could not change screen; nothing was done"
	case StatusCaptureFailed:
		base = "Client window not found"
	case StatusAssetFailed:
		base = fmt.Sprintf("Could not load the image for %q", o.Keyword)
	case StatusInputFailed:
		base = fmt.Sprintf("Found %q but the click failed", o.Keyword)
	case StatusTargetNotFound:
		base = fmt.Sprintf("%q did not appear on screen after %d attempts", o.Keyword, o.Attempts)
	case StatusCancelled:
		base = "Action cancelled"
	case StatusPanicked:
		base = "Internal error; action abandoned"
	default:
		base = "Unknown outcome"
	}
	if len(notes) == 0 {
		return base
	}
	return base + " (" + strings.Join(notes, "; ") + ")"
}

func (o Outcome) advisoryNotes() []string {
	var notes []string
	for _, a := range o.Advisories {
		switch a {
		case AdvisoryAmbiguous:
			notes = append(notes, fmt.Sprintf("%d controls matched, took %q", o.Candidates, o.Keyword))
		case navigation.AdvisoryNoPendingLobby:
			notes = append(notes, fmt.Sprintf("no game lobby remembered, fell back to %s", o.To))
		case navigation.AdvisoryNoPrevious:
			notes = append(notes, fmt.Sprintf("no previous screen, fell back to %s", o.To))
		default:
			notes = append(notes, string(a))
		}
	}
	return notes
}
