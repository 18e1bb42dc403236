// File: cmd/rumble/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/xkilldash9x/rumble-cli/cmd"
	"github.com/xkilldash9x/rumble-cli/internal/observability"
)

const panicLogFile = "panic.log"

const banner = `
  rumble - type what you want to do, e.g. "find match" or "back".
  "exit" or Ctrl+D leaves.

`

// Function variables so tests can observe exits and file writes.
var (
	osWriteFile = os.WriteFile
	osExit      = os.Exit
)

func main() {
	defer handlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	if len(os.Args) > 1 {
		err = cmd.Execute(ctx)
	} else {
		fmt.Print(banner)
		err = cmd.ExecuteArgs(ctx, []string{"shell"})
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			osExit(0)
			return
		}
		osExit(1)
	}
}

// handlePanic writes the panic and stack to panicLogFile and exits non-zero.
func handlePanic() {
	r := recover()
	if r == nil {
		return
	}
	observability.Sync()

	panicMessage := fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack())
	if err := osWriteFile(panicLogFile, []byte(panicMessage), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: Failed to write panic log: %v\n", err)
		fmt.Fprintf(os.Stderr, "Panic details:\n%s\n", panicMessage)
		osExit(1)
		return
	}

	fmt.Fprintf(os.Stderr, "\nrumble crashed. Details logged to %s\n", panicLogFile)
	osExit(1)
}
