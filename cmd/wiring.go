package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/rumble-cli/internal/agent"
	"github.com/xkilldash9x/rumble-cli/internal/browser"
	"github.com/xkilldash9x/rumble-cli/internal/capture"
	"github.com/xkilldash9x/rumble-cli/internal/config"
	"github.com/xkilldash9x/rumble-cli/internal/humanoid"
	"github.com/xkilldash9x/rumble-cli/internal/navigation"
	"github.com/xkilldash9x/rumble-cli/internal/vision"
)

// agentComponents holds everything built for one command run.
type agentComponents struct {
	Agent   *agent.Agent
	session *browser.Session
	logger  *zap.Logger
}

// Shutdown releases the debugger connection, if one was made.
func (c *agentComponents) Shutdown() {
	if c.session == nil {
		return
	}
	if err := c.session.Close(); err != nil {
		c.logger.Warn("Failed to close browser session.", zap.Error(err))
	}
}

// initializeAgent is a variable so tests can substitute fake collaborators.
var initializeAgent = buildAgentComponents

// buildAgentComponents wires the navigator to capture, vision and input as
// configured. Capture and CDP input share one debugger connection.
func buildAgentComponents(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*agentComponents, error) {
	registry, err := navigation.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build screen registry: %w", err)
	}
	opts, err := cfg.Navigator().Options()
	if err != nil {
		return nil, err
	}
	nav, err := navigation.New(registry, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create navigator: %w", err)
	}

	assets, err := vision.NewAssetStore(cfg.Vision().AssetsDir)
	if err != nil {
		return nil, err
	}
	matcher := vision.NewMatcher(assets, cfg.Vision(), logger)

	capturer, session, err := capture.NewFromConfig(ctx, cfg.Capture(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize capture: %w", err)
	}
	components := &agentComponents{session: session, logger: logger}

	var executor humanoid.Executor
	switch cfg.Input().Backend {
	case "log":
		executor = humanoid.NewLogExecutor(logger)
	default:
		if components.session == nil {
			// File capture with real input still needs the debugger for clicks.
			components.session, err = browser.Connect(ctx, cfg.Capture().DebuggerURL, cfg.Capture().Timeout, logger)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize input: %w", err)
			}
		}
		executor = browser.NewExecutorAdapter(components.session)
	}
	clicker := humanoid.New(cfg.Input().Humanoid, executor, logger)

	components.Agent = agent.New(nav, capturer, matcher, clicker, cfg.Agent(), logger)
	logger.Debug("Agent initialized.",
		zap.Stringer("language", opts.Language),
		zap.Stringer("start", opts.Start),
		zap.String("capture", cfg.Capture().Backend),
		zap.String("input", cfg.Input().Backend),
	)
	return components, nil
}
