// File: cmd/main_test.go
package cmd

import (
	"io"
	"os"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/rumble-cli/internal/config"
	"github.com/xkilldash9x/rumble-cli/internal/observability"
)

// TestMain installs a silent logger first; the commands' own logger setup is
// then a no-op, keeping test output clean.
func TestMain(m *testing.M) {
	observability.Initialize(config.LoggerConfig{Level: "fatal", Format: "console", ServiceName: "test"}, zapcore.AddSync(io.Discard))
	code := m.Run()
	observability.ResetForTest()
	os.Exit(code)
}
