// File: internal/agent/agent_test.go
package agent_test

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/rumble-cli/internal/agent"
	"github.com/xkilldash9x/rumble-cli/internal/config"
	"github.com/xkilldash9x/rumble-cli/internal/navigation"
	"github.com/xkilldash9x/rumble-cli/internal/observability"
)

// -- Fakes --

type fakeCapturer struct {
	mu    sync.Mutex
	calls int
	// errs[i] is returned on call i+1; calls past the end succeed.
	errs   []error
	onCall func(n int)
}

func (f *fakeCapturer) Capture(ctx context.Context) (*image.RGBA, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(n)
	}
	if n <= len(f.errs) && f.errs[n-1] != nil {
		return nil, f.errs[n-1]
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (f *fakeCapturer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeMatcher struct {
	mu   sync.Mutex
	refs []navigation.TemplateRef
	// foundOn is the call number on which the template appears; 0 means never.
	foundOn int
	at      image.Point
	err     error
	panics  bool
}

func (f *fakeMatcher) Find(ctx context.Context, frame *image.RGBA, ref navigation.TemplateRef) (image.Point, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panics {
		panic("matcher exploded")
	}
	f.refs = append(f.refs, ref)
	if f.err != nil {
		return image.Point{}, false, f.err
	}
	if f.foundOn > 0 && len(f.refs) >= f.foundOn {
		return f.at, true, nil
	}
	return image.Point{}, false, nil
}

type fakeClicker struct {
	mu     sync.Mutex
	clicks []image.Point
	err    error
}

func (f *fakeClicker) ClickAt(ctx context.Context, x, y float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.clicks = append(f.clicks, image.Pt(int(x), int(y)))
	return nil
}

type harness struct {
	agent    *agent.Agent
	capturer *fakeCapturer
	matcher  *fakeMatcher
	clicker  *fakeClicker
}

func testAgentConfig() config.AgentConfig {
	return config.AgentConfig{
		PollInterval:       time.Millisecond,
		MaxAttempts:        10,
		MaxCaptureFailures: 3,
		ActionTimeout:      5 * time.Second,
	}
}

func newHarness(t *testing.T, cfg config.AgentConfig, mutate func(*navigation.Options)) *harness {
	t.Helper()
	reg, err := navigation.NewRegistry()
	require.NoError(t, err)
	opts := navigation.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	logger := observability.GetLogger()
	nav, err := navigation.New(reg, opts, logger)
	require.NoError(t, err)

	h := &harness{
		capturer: &fakeCapturer{},
		matcher:  &fakeMatcher{foundOn: 1, at: image.Pt(320, 180)},
		clicker:  &fakeClicker{},
	}
	h.agent = agent.New(nav, h.capturer, h.matcher, h.clicker, cfg, logger)
	return h
}

// -- Happy path --

func TestHandle_PlayFromMainScreen(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusCompleted, out.Status)
	assert.Equal(t, "Action completed successfully", out.Message())
	assert.Equal(t, navigation.MainScreen, out.From)
	assert.Equal(t, navigation.GameSelection, out.To)
	assert.Equal(t, navigation.GameSelection, h.agent.Current())
	assert.Equal(t, "play", out.Keyword)
	assert.Equal(t, 1, out.Attempts)
	assert.NotEmpty(t, out.ActionID)
	require.NotNil(t, out.Position)
	assert.Equal(t, image.Pt(320, 180), *out.Position)
	assert.Equal(t, []image.Point{{X: 320, Y: 180}}, h.clicker.clicks, "exactly one click")
	assert.Equal(t, []navigation.TemplateRef{"en/main/play.png"}, h.matcher.refs)
	assert.NoError(t, out.Err)
}

func TestHandle_RetriesUntilTemplateAppears(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)
	h.matcher.foundOn = 4

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusCompleted, out.Status)
	assert.Equal(t, 4, out.Attempts)
	assert.Equal(t, 4, h.capturer.Calls(), "one fresh frame per attempt")
	assert.Len(t, h.clicker.clicks, 1)
}

func TestPlay_ReturnsMessage(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)
	assert.Equal(t, "Action completed successfully", h.agent.Play(context.Background(), "Play"))
	assert.Equal(t, "No match found for your query", h.agent.Play(context.Background(), "xyzzy"))
}

// -- Navigation outcomes --

func TestHandle_NoMatch(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)

	out := h.agent.Handle(context.Background(), "xyzzy")

	assert.Equal(t, agent.StatusNoMatch, out.Status)
	assert.Equal(t, "No match found for your query", out.Message())
	assert.Equal(t, navigation.MainScreen, out.To)
	assert.Equal(t, navigation.MainScreen, h.agent.Current())
	assert.Zero(t, h.capturer.Calls(), "no polling without a match")
	assert.False(t, out.Status.Advanced())
}

func TestHandle_AmbiguousInputTakesFirstDeclared(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)

	out := h.agent.Handle(context.Background(), "your shop")

	assert.Equal(t, agent.StatusCompleted, out.Status)
	assert.Equal(t, "your shop", out.Keyword)
	assert.Equal(t, 2, out.Candidates)
	assert.Equal(t, []navigation.Advisory{agent.AdvisoryAmbiguous}, out.Advisories)
	assert.Equal(t, `Action completed; 2 controls matched, took "your shop"`, out.Message())
	assert.Equal(t, navigation.Store, h.agent.Current())
}

func TestHandle_GameLobbyFallbackAdvisory(t *testing.T) {
	h := newHarness(t, testAgentConfig(), func(o *navigation.Options) {
		o.Start = navigation.AcceptDecline
	})

	out := h.agent.Handle(context.Background(), "decline")

	assert.Equal(t, agent.StatusCompleted, out.Status)
	assert.Equal(t, navigation.NormalLobby, out.To)
	assert.Equal(t, []navigation.Advisory{navigation.AdvisoryNoPendingLobby}, out.Advisories)
	assert.Equal(t, "Action completed; no game lobby remembered, fell back to Normal lobby", out.Message())
}

func TestHandle_SpanishSession(t *testing.T) {
	h := newHarness(t, testAgentConfig(), func(o *navigation.Options) {
		o.Language = navigation.Spanish
		o.Start = navigation.GameSelection
	})

	out := h.agent.Handle(context.Background(), "clasificatoria")

	assert.Equal(t, agent.StatusCompleted, out.Status)
	assert.Equal(t, navigation.RankedLobby, out.To)
	assert.Contains(t, string(h.matcher.refs[0]), "es/")
}

// -- Collaborator failures --

func TestHandle_CaptureFailuresAreBounded(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)
	missing := errors.New("window not found")
	h.capturer.errs = []error{missing, missing, missing, missing, missing}

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusCaptureFailed, out.Status)
	assert.ErrorIs(t, out.Err, missing)
	assert.Equal(t, 3, h.capturer.Calls())
	assert.Equal(t, "Client window not found", out.Message())
	assert.Equal(t, navigation.GameSelection, h.agent.Current(), "the navigator advanced before polling")
	assert.Empty(t, h.clicker.clicks)
}

func TestHandle_CaptureFailureCounterResets(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)
	missing := errors.New("window minimized")
	h.capturer.errs = []error{missing, nil, missing, missing, nil}
	h.matcher.foundOn = 2

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusCompleted, out.Status)
	assert.Equal(t, 5, out.Attempts)
}

func TestHandle_AssetFailureIsNotRetried(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)
	h.matcher.err = errors.New("template asset not found")

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusAssetFailed, out.Status)
	assert.Equal(t, 1, h.capturer.Calls())
	assert.Equal(t, `Could not load the image for "play"`, out.Message())
}

func TestHandle_ClickFailure(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)
	h.clicker.err = errors.New("debugger detached")

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusInputFailed, out.Status)
	assert.Equal(t, `Found "play" but the click failed`, out.Message())
	require.NotNil(t, out.Position)
}

func TestHandle_TargetNotFound(t *testing.T) {
	cfg := testAgentConfig()
	cfg.MaxAttempts = 5
	h := newHarness(t, cfg, nil)
	h.matcher.foundOn = 0

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusTargetNotFound, out.Status)
	assert.Equal(t, 5, out.Attempts)
	assert.Equal(t, 5, h.capturer.Calls())
	assert.Equal(t, `"play" did not appear on screen after 5 attempts`, out.Message())
	assert.Empty(t, h.clicker.clicks)
}

func TestHandle_ActionTimeout(t *testing.T) {
	cfg := testAgentConfig()
	cfg.MaxAttempts = 1_000_000
	cfg.ActionTimeout = 50 * time.Millisecond
	h := newHarness(t, cfg, nil)
	h.matcher.foundOn = 0

	out := h.agent.Handle(context.Background(), "play")

	assert.Equal(t, agent.StatusTargetNotFound, out.Status)
	assert.Less(t, out.Attempts, cfg.MaxAttempts)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "time budget")
}

// -- Cancellation --

func TestHandle_Cancellation(t *testing.T) {
	t.Run("cancelled before polling", func(t *testing.T) {
		h := newHarness(t, testAgentConfig(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out := h.agent.Handle(ctx, "play")

		assert.Equal(t, agent.StatusCancelled, out.Status)
		assert.Equal(t, "Action cancelled", out.Message())
		assert.Zero(t, h.capturer.Calls())
		assert.Equal(t, navigation.GameSelection, h.agent.Current())
	})

	t.Run("cancelled between iterations", func(t *testing.T) {
		h := newHarness(t, testAgentConfig(), nil)
		h.matcher.foundOn = 0
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		h.capturer.onCall = func(n int) {
			if n == 2 {
				cancel()
			}
		}

		out := h.agent.Handle(ctx, "play")

		assert.Equal(t, agent.StatusCancelled, out.Status)
		assert.ErrorIs(t, out.Err, context.Canceled)
		assert.Empty(t, h.clicker.clicks)
	})
}

// -- Robustness --

func TestHandle_RecoversFromCollaboratorPanic(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)
	h.matcher.panics = true

	out := h.agent.Handle(context.Background(), "play")
	assert.Equal(t, agent.StatusPanicked, out.Status)
	assert.Equal(t, "Internal error; action abandoned", out.Message())

	// The agent is still usable afterwards.
	h.matcher.mu.Lock()
	h.matcher.panics = false
	h.matcher.mu.Unlock()
	out = h.agent.Handle(context.Background(), "normal")
	assert.Equal(t, agent.StatusCompleted, out.Status)
	assert.Equal(t, navigation.NormalLobby, out.To)
}

func TestHandle_SerializesConcurrentCallers(t *testing.T) {
	h := newHarness(t, testAgentConfig(), nil)

	// "home" is a self-transition on the main screen, so every call matches.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.agent.Handle(context.Background(), "home")
		}()
	}
	wg.Wait()

	assert.Len(t, h.clicker.clicks, 8)
	assert.Equal(t, navigation.MainScreen, h.agent.Current())
}
