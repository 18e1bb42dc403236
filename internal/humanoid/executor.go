// Filename: internal/humanoid/executor.go
package humanoid

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Executor is the transport the humanoid drives. Production code uses the
// CDP adapter in internal/browser; tests and dry runs use LogExecutor.
type Executor interface {
	// Sleep pauses execution, respecting context cancellation.
	Sleep(ctx context.Context, d time.Duration) error

	// DispatchMouseEvent sends a single low-level mouse event.
	DispatchMouseEvent(ctx context.Context, data MouseEventData) error
}

// LogExecutor records and logs mouse events without touching any window.
type LogExecutor struct {
	logger *zap.Logger

	mu     sync.Mutex
	events []MouseEventData
}

var _ Executor = (*LogExecutor)(nil)

// NewLogExecutor creates an executor for dry runs.
func NewLogExecutor(logger *zap.Logger) *LogExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogExecutor{logger: logger.Named("dry_input")}
}

// Sleep does not block; dry runs should not wait out human timing.
func (e *LogExecutor) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func (e *LogExecutor) DispatchMouseEvent(ctx context.Context, data MouseEventData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	e.events = append(e.events, data)
	e.mu.Unlock()

	// Moves are too chatty for anything above debug.
	if data.Type == MouseMove {
		e.logger.Debug("Mouse move", zap.Float64("x", data.X), zap.Float64("y", data.Y))
		return nil
	}
	e.logger.Info("Mouse button",
		zap.String("type", string(data.Type)),
		zap.String("button", string(data.Button)),
		zap.Float64("x", data.X),
		zap.Float64("y", data.Y),
	)
	return nil
}

// Events returns a copy of everything dispatched so far.
func (e *LogExecutor) Events() []MouseEventData {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]MouseEventData, len(e.events))
	copy(out, e.events)
	return out
}
