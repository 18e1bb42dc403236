// internal/humanoid/humanoid.go
package humanoid

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/rumble-cli/internal/config"
)

// Humanoid turns "click at (x, y)" into a sequence of mouse events that
// looks like a person moved the cursor there and pressed the button.
type Humanoid struct {
	cfg      config.HumanoidConfig
	executor Executor
	logger   *zap.Logger

	mu sync.Mutex
	// The last position we moved the cursor to. Unknown until the first click.
	currentPos Vector2D
	hasPos     bool
	rng        *rand.Rand
}

// New creates a Humanoid driving the given executor.
func New(cfg config.HumanoidConfig, executor Executor, logger *zap.Logger) *Humanoid {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Humanoid{
		cfg:      cfg,
		executor: executor,
		logger:   logger.Named("humanoid"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClickAt moves to (x, y) and performs one left click. With humanoid motion
// disabled it sends a single move followed by press and release.
func (h *Humanoid) ClickAt(ctx context.Context, x, y float64) error {
	if h.executor == nil {
		return fmt.Errorf("humanoid: no executor configured")
	}
	target := Vector2D{X: x, Y: y}

	if h.cfg.Enabled {
		if err := h.moveTo(ctx, target); err != nil {
			return fmt.Errorf("humanoid: move to (%.0f, %.0f): %w", x, y, err)
		}
	} else {
		if err := h.dispatchMove(ctx, target); err != nil {
			return fmt.Errorf("humanoid: move to (%.0f, %.0f): %w", x, y, err)
		}
	}

	if err := h.click(ctx); err != nil {
		return fmt.Errorf("humanoid: click at (%.0f, %.0f): %w", x, y, err)
	}
	h.logger.Debug("Clicked", zap.Float64("x", x), zap.Float64("y", y))
	return nil
}

// Position reports the last cursor position and whether one is known.
func (h *Humanoid) Position() (Vector2D, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentPos, h.hasPos
}

func (h *Humanoid) dispatchMove(ctx context.Context, p Vector2D) error {
	if err := h.executor.DispatchMouseEvent(ctx, MouseEventData{
		Type:   MouseMove,
		X:      p.X,
		Y:      p.Y,
		Button: ButtonNone,
	}); err != nil {
		return err
	}
	h.mu.Lock()
	h.currentPos = p
	h.hasPos = true
	h.mu.Unlock()
	return nil
}
