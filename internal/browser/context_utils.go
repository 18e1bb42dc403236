// internal/browser/context_utils.go
package browser

import "context"

// CombineContext returns a context that inherits values and cancellation from
// ctx1 and is additionally cancelled when ctx2 is done.
func CombineContext(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(ctx1)

	// A deadline on ctx2 should apply to chromedp commands too.
	if deadline, ok := ctx2.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		combinedCtx, cancelDeadline = context.WithDeadline(combinedCtx, deadline)
		outer := cancel
		cancel = func() {
			cancelDeadline()
			outer()
		}
	}

	// The goroutine stops when either context is done.
	go func() {
		select {
		case <-ctx2.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	return combinedCtx, cancel
}
