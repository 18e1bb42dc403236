package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/input"

	"github.com/xkilldash9x/rumble-cli/internal/humanoid"
)

// ExecutorAdapter implements humanoid.Executor over CDP Input.dispatchMouseEvent.
type ExecutorAdapter struct {
	session *Session
}

// NewExecutorAdapter creates an adapter wrapping the session.
func NewExecutorAdapter(session *Session) *ExecutorAdapter {
	return &ExecutorAdapter{session: session}
}

var _ humanoid.Executor = (*ExecutorAdapter)(nil)

// Sleep waits for d unless ctx or the session ends first.
func (a *ExecutorAdapter) Sleep(ctx context.Context, d time.Duration) error {
	if a.session == nil {
		return fmt.Errorf("adapter session is nil")
	}
	opCtx, opCancel := CombineContext(a.session.ctx, ctx)
	defer opCancel()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-opCtx.Done():
		return opCtx.Err()
	}
}

// DispatchMouseEvent converts the agnostic event into a CDP command.
func (a *ExecutorAdapter) DispatchMouseEvent(ctx context.Context, data humanoid.MouseEventData) error {
	if a.session == nil {
		return fmt.Errorf("adapter session is nil")
	}
	params, err := toDispatchParams(data)
	if err != nil {
		return err
	}
	return a.session.run(ctx, params)
}

func toDispatchParams(data humanoid.MouseEventData) (*input.DispatchMouseEventParams, error) {
	var typ input.MouseType
	switch data.Type {
	case humanoid.MouseMove:
		typ = input.MouseMoved
	case humanoid.MousePress:
		typ = input.MousePressed
	case humanoid.MouseRelease:
		typ = input.MouseReleased
	default:
		return nil, fmt.Errorf("unsupported mouse event type: %s", data.Type)
	}

	p := input.DispatchMouseEvent(typ, data.X, data.Y).
		WithButton(input.MouseButton(data.Button)).
		WithButtons(data.Buttons)
	if data.ClickCount > 0 {
		p = p.WithClickCount(int64(data.ClickCount))
	}
	return p, nil
}
