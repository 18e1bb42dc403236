// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrSessionClosed is returned by operations on a closed Session.
var ErrSessionClosed = errors.New("browser session is closed")

// Session is an attachment to the client's embedded Chromium through its
// remote-debugging endpoint. Capture and input share one Session.
type Session struct {
	// ctx is the chromedp tab context; every command derives from it.
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger

	mu     sync.Mutex
	closed bool
}

// Connect attaches to the debugger at debuggerURL. parent bounds the life of
// the whole session; timeout bounds only the initial attach.
func Connect(parent context.Context, debuggerURL string, timeout time.Duration, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("browser")

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(parent, debuggerURL)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	// The first Run attaches. Its context must not carry the attach
	// timeout, or the tab would be torn down when the timeout fires.
	errCh := make(chan error, 1)
	go func() { errCh <- chromedp.Run(tabCtx) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		if err != nil {
			cancel()
			allocCancel()
			return nil, fmt.Errorf("attach to %s: %w", debuggerURL, err)
		}
	case <-timer.C:
		cancel()
		allocCancel()
		<-errCh
		return nil, fmt.Errorf("attach to %s: timed out after %s", debuggerURL, timeout)
	}

	logger.Info("Attached to client debugger.", zap.String("url", debuggerURL))
	return &Session{
		ctx:         tabCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// run executes actions on the session's tab, bounded by both the session
// lifetime and ctx.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSessionClosed
	}

	opCtx, opCancel := CombineContext(s.ctx, ctx)
	defer opCancel()
	return chromedp.Run(opCtx, actions...)
}

// Screenshot returns the current page as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := s.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(c)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Close detaches from the client. It does not close the client itself.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	s.allocCancel()
	s.logger.Debug("Detached from client debugger.")
	return nil
}
