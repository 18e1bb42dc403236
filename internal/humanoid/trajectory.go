package humanoid

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// targetWidth is the assumed button width, in pixels, for Fitts's law.
const targetWidth = 30.0

// computeEaseInOutCubic provides a smooth acceleration and deceleration profile for movement.
func computeEaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// calculateFittsLaw returns the movement time for a given distance:
// MT = A + B * log2(1 + D/W), randomized by +/- 15%.
func (h *Humanoid) calculateFittsLaw(distance float64) time.Duration {
	id := math.Log2(1.0 + distance/targetWidth)
	mt := h.cfg.FittsA + h.cfg.FittsB*id

	h.mu.Lock()
	mt += mt * (h.rng.Float64()*0.3 - 0.15)
	h.mu.Unlock()

	if mt < 0 {
		mt = 0
	}
	return time.Duration(mt * float64(time.Millisecond))
}

// generateIdealPath creates a cubic Bezier curve from start to end. Both
// control points bow to the same side of the straight line by a random
// fraction of the distance, the way a wrist arc does.
func (h *Humanoid) generateIdealPath(start, end Vector2D, numSteps int) []Vector2D {
	mainVec := end.Sub(start)
	dist := mainVec.Mag()
	if dist < 1.0 || numSteps <= 1 {
		return []Vector2D{end}
	}

	mainDir := mainVec.Normalize()
	normal := mainDir.Perp()

	h.mu.Lock()
	bend := (h.rng.Float64()*0.3 - 0.15) * dist
	skew := h.rng.Float64()*0.2 - 0.1
	h.mu.Unlock()

	p0, p3 := start, end
	p1 := start.Add(mainDir.Mul(dist * (1.0/3.0 + skew))).Add(normal.Mul(bend))
	p2 := start.Add(mainDir.Mul(dist * (2.0/3.0 + skew))).Add(normal.Mul(bend * 0.6))

	path := make([]Vector2D, numSteps)
	for i := 0; i < numSteps; i++ {
		t := float64(i) / float64(numSteps-1)
		omt := 1.0 - t
		omt2 := omt * omt
		omt3 := omt2 * omt
		t2 := t * t
		t3 := t2 * t

		path[i] = p0.Mul(omt3).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t3))
	}
	// The curve ends exactly on the target.
	path[numSteps-1] = end
	return path
}

// applyGaussianNoise perturbs p by independent normal noise on each axis.
func (h *Humanoid) applyGaussianNoise(p Vector2D) Vector2D {
	if h.cfg.JitterStdDev <= 0 {
		return p
	}
	h.mu.Lock()
	dx := h.rng.NormFloat64() * h.cfg.JitterStdDev
	dy := h.rng.NormFloat64() * h.cfg.JitterStdDev
	h.mu.Unlock()
	return Vector2D{X: p.X + dx, Y: p.Y + dy}
}

// moveTo moves the cursor along a timed path and finishes exactly on target.
// If the cursor position is unknown it jumps straight there.
func (h *Humanoid) moveTo(ctx context.Context, target Vector2D) error {
	start, known := h.Position()
	if !known {
		return h.dispatchMove(ctx, target)
	}

	duration := h.calculateFittsLaw(start.Dist(target))
	numSteps := int(duration.Seconds() * 100)
	if numSteps < 2 {
		numSteps = 2
	}
	path := h.generateIdealPath(start, target, numSteps)
	if len(path) == 1 {
		return h.dispatchMove(ctx, target)
	}

	var elapsed time.Duration
	for i := 1; i < len(path); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Eased progress decides both where along the path we are and when.
		t := float64(i) / float64(len(path)-1)
		easedT := computeEaseInOutCubic(t)
		idx := int(math.Round(easedT * float64(len(path)-1)))
		point := path[idx]
		if i < len(path)-1 {
			point = h.applyGaussianNoise(point)
		}

		due := time.Duration(easedT * float64(duration))
		if wait := due - elapsed; wait > 0 {
			if err := h.executor.Sleep(ctx, wait); err != nil {
				return err
			}
			elapsed = due
		}

		if err := h.dispatchMove(ctx, point); err != nil {
			if ctx.Err() == nil {
				h.logger.Warn("Failed to dispatch mouse move event", zap.Error(err))
			}
			return err
		}
	}
	h.logger.Debug("Moved cursor",
		zap.Float64("distance", start.Dist(target)),
		zap.Duration("duration", duration),
		zap.Int("steps", len(path)),
	)
	return nil
}
