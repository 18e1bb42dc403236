// internal/capture/capture.go
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // frame files may be JPEG
	_ "image/png"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/xkilldash9x/rumble-cli/internal/browser"
	"github.com/xkilldash9x/rumble-cli/internal/config"
)

// ErrWindowNotFound is returned when there is no client window to capture.
var ErrWindowNotFound = errors.New("client window not found")

// Capturer produces the current frame of the client window. Each call
// returns a newly allocated image owned by the caller.
type Capturer interface {
	Capture(ctx context.Context) (*image.RGBA, error)
}

// Screenshotter is the slice of browser.Session the CDP backend needs.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

var _ Screenshotter = (*browser.Session)(nil)

// -- CDP backend --

// CDPCapturer captures the client through its remote-debugging endpoint.
type CDPCapturer struct {
	source Screenshotter
	logger *zap.Logger
}

// NewCDPCapturer wraps a screenshot source.
func NewCDPCapturer(source Screenshotter, logger *zap.Logger) *CDPCapturer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CDPCapturer{source: source, logger: logger.Named("capture")}
}

func (c *CDPCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	if c.source == nil {
		return nil, ErrWindowNotFound
	}
	data, err := c.source.Screenshot(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug("Screenshot failed.", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
	}
	return decodeFrame(bytes.NewReader(data))
}

// -- File backend --

// FileCapturer reads the frame from an image file on every call.
type FileCapturer struct {
	path string
}

// NewFileCapturer captures from path, which may be rewritten between calls.
func NewFileCapturer(path string) *FileCapturer {
	return &FileCapturer{path: path}
}

func (c *FileCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, c.path)
		}
		return nil, err
	}
	defer f.Close()
	return decodeFrame(f)
}

// decodeFrame decodes a PNG or JPEG into a fresh RGBA image with a
// zero-origin bounds rectangle.
func decodeFrame(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// -- Factory --

// NewFromConfig selects the backend named by cfg.Backend. For "cdp" it
// attaches a browser session and also returns it so input can share the
// connection; the session is nil for other backends.
func NewFromConfig(ctx context.Context, cfg config.CaptureConfig, logger *zap.Logger) (Capturer, *browser.Session, error) {
	switch cfg.Backend {
	case "file":
		return NewFileCapturer(cfg.FramePath), nil, nil
	case "cdp", "":
		session, err := browser.Connect(ctx, cfg.DebuggerURL, cfg.Timeout, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrWindowNotFound, err)
		}
		return NewCDPCapturer(session, logger), session, nil
	default:
		return nil, nil, fmt.Errorf("unknown capture backend %q", cfg.Backend)
	}
}
