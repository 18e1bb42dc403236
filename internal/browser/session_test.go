// internal/browser/session_test.go
package browser

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/rumble-cli/internal/humanoid"
)

func TestCombineContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("second context cancels combined", func(t *testing.T) {
		ctx2, cancel2 := context.WithCancel(context.Background())
		combined, cancel := CombineContext(context.Background(), ctx2)
		defer cancel()

		cancel2()
		select {
		case <-combined.Done():
		case <-time.After(time.Second):
			t.Fatal("combined context was not cancelled")
		}
	})

	t.Run("first context cancels combined", func(t *testing.T) {
		ctx1, cancel1 := context.WithCancel(context.Background())
		combined, cancel := CombineContext(ctx1, context.Background())
		defer cancel()

		cancel1()
		<-combined.Done()
		assert.ErrorIs(t, combined.Err(), context.Canceled)
	})

	t.Run("deadline of second context applies", func(t *testing.T) {
		ctx2, cancel2 := context.WithTimeout(context.Background(), time.Hour)
		defer cancel2()
		combined, cancel := CombineContext(context.Background(), ctx2)
		defer cancel()

		want, _ := ctx2.Deadline()
		got, ok := combined.Deadline()
		require.True(t, ok)
		assert.Equal(t, want, got)
	})
}

func TestToDispatchParams(t *testing.T) {
	p, err := toDispatchParams(humanoid.MouseEventData{
		Type:       humanoid.MousePress,
		X:          12,
		Y:          34,
		Button:     humanoid.ButtonLeft,
		ClickCount: 1,
		Buttons:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, input.MousePressed, p.Type)
	assert.Equal(t, 12.0, p.X)
	assert.Equal(t, 34.0, p.Y)
	assert.Equal(t, input.MouseButton("left"), p.Button)
	assert.Equal(t, int64(1), p.ClickCount)
	assert.Equal(t, int64(1), p.Buttons)

	move, err := toDispatchParams(humanoid.MouseEventData{Type: humanoid.MouseMove, Button: humanoid.ButtonNone})
	require.NoError(t, err)
	assert.Equal(t, input.MouseMoved, move.Type)
	assert.Zero(t, move.ClickCount)

	_, err = toDispatchParams(humanoid.MouseEventData{Type: "mouseWheel"})
	assert.ErrorContains(t, err, "unsupported mouse event type")
}

func TestSession_ClosedAndNil(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{ctx: ctx, cancel: cancel, allocCancel: func() {}, logger: zap.NewNop()}
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")

	_, err := s.Screenshot(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)

	adapter := NewExecutorAdapter(s)
	err = adapter.DispatchMouseEvent(context.Background(), humanoid.MouseEventData{Type: humanoid.MouseMove})
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Error(t, adapter.Sleep(context.Background(), time.Hour), "a closed session ends sleeps")

	var empty ExecutorAdapter
	assert.ErrorContains(t, empty.Sleep(context.Background(), time.Millisecond), "session is nil")
	assert.ErrorContains(t, empty.DispatchMouseEvent(context.Background(), humanoid.MouseEventData{}), "session is nil")
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(context.Background(), "ws://127.0.0.1:1/devtools/browser/none", 2*time.Second, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attach to ws://127.0.0.1:1")
}
