package humanoid

import (
	"context"
	"time"
)

// click presses and releases the left button at the current position,
// holding it for a randomized, human-scale interval.
func (h *Humanoid) click(ctx context.Context) error {
	pos, _ := h.Position()

	if err := h.executor.DispatchMouseEvent(ctx, MouseEventData{
		Type:       MousePress,
		X:          pos.X,
		Y:          pos.Y,
		Button:     ButtonLeft,
		ClickCount: 1,
		Buttons:    1,
	}); err != nil {
		return err
	}

	if hold := h.holdDuration(); hold > 0 {
		if err := h.executor.Sleep(ctx, hold); err != nil {
			// Never leave the button held down.
			_ = h.release(context.WithoutCancel(ctx), pos)
			return err
		}
	}

	return h.release(ctx, pos)
}

func (h *Humanoid) release(ctx context.Context, pos Vector2D) error {
	return h.executor.DispatchMouseEvent(ctx, MouseEventData{
		Type:       MouseRelease,
		X:          pos.X,
		Y:          pos.Y,
		Button:     ButtonLeft,
		ClickCount: 1,
		Buttons:    0,
	})
}

// holdDuration is uniform in [ClickHoldMinMs, ClickHoldMaxMs]. Without
// humanoid motion the button is released immediately.
func (h *Humanoid) holdDuration() time.Duration {
	if !h.cfg.Enabled {
		return 0
	}
	lo, hi := h.cfg.ClickHoldMinMs, h.cfg.ClickHoldMaxMs
	ms := lo
	if hi > lo {
		h.mu.Lock()
		ms += h.rng.Intn(hi - lo + 1)
		h.mu.Unlock()
	}
	return time.Duration(ms) * time.Millisecond
}
