// internal/navigation/navigator.go
package navigation

import (
	"fmt"

	"go.uber.org/zap"
)

// Advisory flags a transition that completed, but not exactly as declared.
type Advisory string

const (
	// AdvisoryNoPrevious means a PreviousScreen target was pressed before any
	// transition had happened; the fallback screen was used.
	AdvisoryNoPrevious Advisory = "NO_PREVIOUS_SCREEN"
	// AdvisoryNoPendingLobby means a GameLobby target was pressed with no game
	// mode remembered; the fallback lobby was used.
	AdvisoryNoPendingLobby Advisory = "NO_PENDING_LOBBY"
)

// Options configures a Navigator. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Language Language
	// Start is the screen the client is assumed to show at construction.
	Start ScreenID
	// RememberGameMode records the lobby picked on GameSelection so a later
	// GameLobby target can return to it.
	RememberGameMode bool
	// FallbackScreen replaces PreviousScreen when there is no previous screen.
	FallbackScreen ScreenID
	// FallbackLobby replaces GameLobby when no lobby has been remembered.
	FallbackLobby ScreenID
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Language:         DefaultLanguage,
		Start:            MainScreen,
		RememberGameMode: true,
		FallbackScreen:   MainScreen,
		FallbackLobby:    NormalLobby,
	}
}

// Selection describes how a control was picked from the matches of an input.
type Selection struct {
	Control    Control
	Candidates int
}

// Ambiguous reports whether more than one control matched.
func (s Selection) Ambiguous() bool { return s.Candidates > 1 }

// Transition is the result of Advance.
type Transition struct {
	From ScreenID
	// Declared is the target as written on the control, possibly a sentinel.
	Declared ScreenID
	// To is the concrete screen that became current.
	To         ScreenID
	Advisories []Advisory
}

// Navigator is the screen state machine. It is not safe for concurrent use;
// callers serialize Resolve, Select and Advance.
type Navigator struct {
	registry *Registry
	opts     Options
	logger   *zap.Logger

	current      *Screen
	previous     ScreenID
	hasPrevious  bool
	pendingLobby ScreenID
	hasPending   bool
}

// New creates a Navigator positioned on opts.Start.
func New(registry *Registry, opts Options, logger *zap.Logger) (*Navigator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for name, id := range map[string]ScreenID{
		"fallback screen": opts.FallbackScreen,
		"fallback lobby":  opts.FallbackLobby,
	} {
		if _, err := registry.Create(id); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	start, err := registry.Create(opts.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start screen: %w", err)
	}

	return &Navigator{
		registry: registry,
		opts:     opts,
		logger:   logger.Named("navigator"),
		current:  start,
	}, nil
}

// Current returns the screen the navigator believes is showing.
func (n *Navigator) Current() ScreenID { return n.current.ID() }

// CurrentScreen returns the current Screen value.
func (n *Navigator) CurrentScreen() *Screen { return n.current }

// Previous returns the screen shown before the current one, if any.
func (n *Navigator) Previous() (ScreenID, bool) { return n.previous, n.hasPrevious }

// PendingLobby returns the remembered game-mode lobby, if any.
func (n *Navigator) PendingLobby() (ScreenID, bool) { return n.pendingLobby, n.hasPending }

// Language returns the language fixed at construction.
func (n *Navigator) Language() Language { return n.opts.Language }

// Resolve returns every control on the current screen matching input.
func (n *Navigator) Resolve(input string) []Control {
	return n.current.FindMatching(input, n.opts.Language)
}

// Select resolves input and picks the first match in declared order. When
// several controls match, the choice is logged as a warning. It returns false
// when nothing matched.
func (n *Navigator) Select(input string) (Selection, bool) {
	matches := n.Resolve(input)
	if len(matches) == 0 {
		n.logger.Debug("No control matched input",
			zap.String("input", input),
			zap.Stringer("screen", n.current.ID()))
		return Selection{}, false
	}

	sel := Selection{Control: matches[0], Candidates: len(matches)}
	if sel.Ambiguous() {
		keywords := make([]string, len(matches))
		for i, m := range matches {
			keywords[i] = m.Keyword()
		}
		n.logger.Warn("Several controls matched; taking the first declared",
			zap.String("input", input),
			zap.Strings("candidates", keywords),
			zap.String("chosen", sel.Control.Keyword()))
	}
	return sel, true
}

// Advance applies the transition declared by c. The screen that was current
// becomes the previous one, including for sentinel targets. If the target
// screen cannot be built the navigator is left unchanged.
func (n *Navigator) Advance(c Control) (Transition, error) {
	from := n.current.ID()
	t := Transition{From: from, Declared: c.Target()}

	pending, hasPending := n.pendingLobby, n.hasPending
	if n.opts.RememberGameMode && from == GameSelection && c.Target().IsLobby() {
		pending, hasPending = c.Target(), true
	}

	switch c.Target() {
	case PreviousScreen:
		if n.hasPrevious {
			t.To = n.previous
		} else {
			t.To = n.opts.FallbackScreen
			t.Advisories = append(t.Advisories, AdvisoryNoPrevious)
		}
	case GameLobby:
		if hasPending {
			t.To = pending
			hasPending = false
		} else {
			t.To = n.opts.FallbackLobby
			t.Advisories = append(t.Advisories, AdvisoryNoPendingLobby)
		}
	default:
		t.To = c.Target()
	}

	next, err := n.registry.Create(t.To)
	if err != nil {
		return Transition{}, fmt.Errorf("advance from %s via %q: %w", from, c.Keyword(), err)
	}

	n.previous, n.hasPrevious = from, true
	n.pendingLobby, n.hasPending = pending, hasPending
	n.current = next

	fields := []zap.Field{
		zap.String("control", c.Keyword()),
		zap.Stringer("from", t.From),
		zap.Stringer("to", t.To),
	}
	if t.Declared.IsSentinel() {
		fields = append(fields, zap.Stringer("declared", t.Declared))
	}
	if len(t.Advisories) > 0 {
		n.logger.Warn("Sentinel target fell back to default", append(fields, zap.Any("advisories", t.Advisories))...)
	} else {
		n.logger.Info("Screen transition", fields...)
	}
	return t, nil
}
