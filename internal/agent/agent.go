// internal/agent/agent.go
package agent

import (
	"context"
	"fmt"
	"image"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/rumble-cli/internal/config"
	"github.com/xkilldash9x/rumble-cli/internal/navigation"
)

// Capturer returns the current client frame. The frame is handed over to the
// caller; the capturer must not touch it afterwards.
type Capturer interface {
	Capture(ctx context.Context) (*image.RGBA, error)
}

// Matcher looks for a template in a frame and returns the centre of the hit.
type Matcher interface {
	Find(ctx context.Context, frame *image.RGBA, ref navigation.TemplateRef) (image.Point, bool, error)
}

// Clicker clicks at a point in frame coordinates.
type Clicker interface {
	ClickAt(ctx context.Context, x, y float64) error
}

// Agent turns free-text input into screen transitions and clicks. One Agent
// owns one Navigator; Handle calls are serialized.
type Agent struct {
	nav      *navigation.Navigator
	capturer Capturer
	matcher  Matcher
	clicker  Clicker
	cfg      config.AgentConfig
	logger   *zap.Logger

	mu sync.Mutex
}

// New creates an Agent. cfg must already be validated.
func New(nav *navigation.Navigator, capturer Capturer, matcher Matcher, clicker Clicker, cfg config.AgentConfig, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		nav:      nav,
		capturer: capturer,
		matcher:  matcher,
		clicker:  clicker,
		cfg:      cfg,
		logger:   logger.Named("agent"),
	}
}

// Current returns the screen the agent believes is showing.
func (a *Agent) Current() navigation.ScreenID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nav.Current()
}

// Play handles input and returns the user-facing status line.
func (a *Agent) Play(ctx context.Context, input string) string {
	return a.Handle(ctx, input).Message()
}

// Handle resolves input against the current screen, advances the navigator
// and then polls for the control's template until it is clicked or a bound
// is hit. The navigator advances before the click is confirmed.
func (a *Agent) Handle(ctx context.Context, input string) (out Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	out = Outcome{ActionID: uuid.NewString(), Input: input}
	logger := a.logger.With(zap.String("action_id", out.ActionID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic while handling input.",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			out.Status = StatusPanicked
			out.Err = fmt.Errorf("panic: %v", r)
		}
		out.Duration = time.Since(start)
		a.logOutcome(logger, out)
	}()

	out.From = a.nav.Current()
	out.To = out.From

	sel, ok := a.nav.Select(input)
	if !ok {
		out.Status = StatusNoMatch
		return out
	}
	out.Keyword = sel.Control.Keyword()
	out.Candidates = sel.Candidates
	if sel.Ambiguous() {
		out.Advisories = append(out.Advisories, AdvisoryAmbiguous)
	}

	t, err := a.nav.Advance(sel.Control)
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		return out
	}
	out.To = t.To
	out.Advisories = append(out.Advisories, t.Advisories...)

	a.pollAndClick(ctx, sel.Control.Template(), &out, logger)
	return out
}

// pollAndClick captures and matches until the template is found, then clicks
// exactly once. It stops early on cancellation, on a structural asset error,
// or after MaxCaptureFailures consecutive capture failures.
func (a *Agent) pollAndClick(parent context.Context, ref navigation.TemplateRef, out *Outcome, logger *zap.Logger) {
	ctx := parent
	if a.cfg.ActionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, a.cfg.ActionTimeout)
		defer cancel()
	}

	limiter := rate.NewLimiter(rate.Every(a.cfg.PollInterval), 1)
	failures := 0

	for attempt := 1; attempt <= a.cfg.MaxAttempts; attempt++ {
		// Cancellation is observed between iterations, not mid-capture.
		if err := ctx.Err(); err != nil {
			a.stop(parent, out, err)
			return
		}
		if err := limiter.Wait(ctx); err != nil {
			a.stop(parent, out, err)
			return
		}
		out.Attempts = attempt

		frame, err := a.capturer.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				a.stop(parent, out, ctx.Err())
				return
			}
			failures++
			logger.Warn("Frame capture failed.",
				zap.Int("attempt", attempt),
				zap.Int("consecutive_failures", failures),
				zap.Error(err))
			if failures >= a.cfg.MaxCaptureFailures {
				out.Status = StatusCaptureFailed
				out.Err = err
				return
			}
			continue
		}
		failures = 0

		pos, found, err := a.matcher.Find(ctx, frame, ref)
		if err != nil {
			if ctx.Err() != nil {
				a.stop(parent, out, ctx.Err())
				return
			}
			out.Status = StatusAssetFailed
			out.Err = err
			return
		}
		if !found {
			logger.Debug("Template not on screen yet.", zap.String("template", string(ref)), zap.Int("attempt", attempt))
			continue
		}

		out.Position = &pos
		if err := a.clicker.ClickAt(ctx, float64(pos.X), float64(pos.Y)); err != nil {
			if ctx.Err() != nil {
				a.stop(parent, out, ctx.Err())
				return
			}
			out.Status = StatusInputFailed
			out.Err = err
			return
		}
		out.Status = StatusCompleted
		return
	}

	out.Status = StatusTargetNotFound
	out.Err = fmt.Errorf("template %s not found after %d attempts", ref, a.cfg.MaxAttempts)
}

// stop records why polling ended early. Caller cancellation is reported as
// such; running out of the per-action time budget counts as not finding the
// target.
func (a *Agent) stop(parent context.Context, out *Outcome, err error) {
	if parent.Err() != nil {
		out.Status = StatusCancelled
		out.Err = parent.Err()
		return
	}
	out.Status = StatusTargetNotFound
	out.Err = fmt.Errorf("action time budget of %s exhausted: %w", a.cfg.ActionTimeout, err)
}

func (a *Agent) logOutcome(logger *zap.Logger, out Outcome) {
	fields := []zap.Field{
		zap.String("input", out.Input),
		zap.String("status", string(out.Status)),
		zap.Stringer("from", out.From),
		zap.Stringer("to", out.To),
		zap.Int("attempts", out.Attempts),
		zap.Duration("duration", out.Duration),
	}
	if out.Keyword != "" {
		fields = append(fields, zap.String("keyword", out.Keyword))
	}
	if out.Position != nil {
		fields = append(fields, zap.Int("x", out.Position.X), zap.Int("y", out.Position.Y))
	}
	if out.Err != nil {
		fields = append(fields, zap.Error(out.Err))
	}

	switch out.Status {
	case StatusCompleted:
		logger.Info("Action completed.", fields...)
	case StatusNoMatch:
		logger.Info("No control matched input.", fields...)
	case StatusCancelled:
		logger.Warn("Action cancelled.", fields...)
	default:
		logger.Warn("Action did not complete.", fields...)
	}
}
