// internal/navigation/navigator_test.go
package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestNavigator(t *testing.T, mutate func(*Options)) (*Navigator, *observer.ObservedLogs) {
	t.Helper()
	reg, err := NewRegistry()
	require.NoError(t, err)

	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	nav, err := New(reg, opts, zap.New(core))
	require.NoError(t, err)
	return nav, logs
}

// press selects input on the current screen and advances, failing the test
// if nothing matched.
func press(t *testing.T, nav *Navigator, input string) Transition {
	t.Helper()
	sel, ok := nav.Select(input)
	require.True(t, ok, "no control matched %q on %s", input, nav.Current())
	tr, err := nav.Advance(sel.Control)
	require.NoError(t, err)
	return tr
}

func TestNavigator_New(t *testing.T) {
	nav, _ := newTestNavigator(t, nil)
	assert.Equal(t, MainScreen, nav.Current())
	_, ok := nav.Previous()
	assert.False(t, ok, "previous must be unset before the first transition")
	_, ok = nav.PendingLobby()
	assert.False(t, ok)
	assert.Equal(t, English, nav.Language())

	reg, err := NewRegistry()
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.Start = GameLobby
	_, err = New(reg, opts, nil)
	assert.ErrorIs(t, err, ErrUnknownScreen)

	opts = DefaultOptions()
	opts.FallbackLobby = PreviousScreen
	_, err = New(reg, opts, nil)
	assert.ErrorIs(t, err, ErrUnknownScreen)
}

func TestNavigator_Scenarios(t *testing.T) {
	t.Run("play from the main screen", func(t *testing.T) {
		nav, _ := newTestNavigator(t, nil)
		tr := press(t, nav, "play")
		assert.Equal(t, GameSelection, tr.To)
		assert.Equal(t, GameSelection, nav.Current())
		prev, ok := nav.Previous()
		require.True(t, ok)
		assert.Equal(t, MainScreen, prev)
	})

	t.Run("normal on game selection", func(t *testing.T) {
		nav, _ := newTestNavigator(t, func(o *Options) { o.Start = GameSelection })
		sel, ok := nav.Select("normal")
		require.True(t, ok)
		assert.False(t, sel.Ambiguous())
		tr, err := nav.Advance(sel.Control)
		require.NoError(t, err)
		assert.Equal(t, NormalLobby, tr.To)
		assert.Equal(t, NormalLobby, nav.Current())
	})

	t.Run("normal on a single-control game selection", func(t *testing.T) {
		reg, err := newRegistry([]screenSpec{
			{id: MainScreen, controls: map[Language][]controlSpec{
				English: {{"play", "en/main/play.png", GameSelection}},
			}},
			{id: GameSelection, controls: map[Language][]controlSpec{
				English: {{"normal", "en/game_selection/normal.png", NormalLobby}},
			}},
			{id: NormalLobby, controls: map[Language][]controlSpec{
				English: {{"back", "en/normal_lobby/back.png", PreviousScreen}},
			}},
		})
		require.NoError(t, err)
		opts := DefaultOptions()
		opts.Start = GameSelection
		nav, err := New(reg, opts, nil)
		require.NoError(t, err)

		require.Len(t, nav.Resolve("normal"), 1)
		tr := press(t, nav, "normal")
		assert.Equal(t, NormalLobby, tr.To)
		lobby, ok := nav.PendingLobby()
		require.True(t, ok)
		assert.Equal(t, NormalLobby, lobby)
	})

	t.Run("spanish only ranked control", func(t *testing.T) {
		nav, _ := newTestNavigator(t, func(o *Options) {
			o.Start = GameSelection
			o.Language = Spanish
		})
		tr := press(t, nav, "ranked")
		assert.Equal(t, RankedLobby, tr.To)

		en, _ := newTestNavigator(t, func(o *Options) { o.Start = GameSelection })
		assert.Empty(t, en.Resolve("ranked"))
	})

	t.Run("no keyword overlap", func(t *testing.T) {
		nav, _ := newTestNavigator(t, nil)
		assert.Empty(t, nav.Resolve("xyzzy"))
		_, ok := nav.Select("xyzzy")
		assert.False(t, ok)
		assert.Equal(t, MainScreen, nav.Current())
	})

	t.Run("overlapping keywords pick first declared and warn", func(t *testing.T) {
		nav, logs := newTestNavigator(t, nil)
		sel, ok := nav.Select("your shop")
		require.True(t, ok)
		assert.Equal(t, "your shop", sel.Control.Keyword())
		assert.Equal(t, 2, sel.Candidates)
		assert.True(t, sel.Ambiguous())

		warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
		require.Len(t, warnings, 1)
		assert.Equal(t, "your shop", warnings[0].ContextMap()["chosen"])
	})
}

func TestNavigator_SelectIsDeterministic(t *testing.T) {
	nav, _ := newTestNavigator(t, nil)
	first, ok := nav.Select("shop your shop")
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		again, ok := nav.Select("shop your shop")
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestNavigator_NoMatchLeavesStateAlone(t *testing.T) {
	nav, _ := newTestNavigator(t, func(o *Options) { o.Start = GameSelection })
	press(t, nav, "aram")

	prevBefore, _ := nav.Previous()
	pendingBefore, hadPending := nav.PendingLobby()
	for i := 0; i < 2; i++ {
		_, ok := nav.Select("xyzzy")
		assert.False(t, ok)
	}
	prevAfter, _ := nav.Previous()
	pendingAfter, hasPending := nav.PendingLobby()
	assert.Equal(t, prevBefore, prevAfter)
	assert.Equal(t, hadPending, hasPending)
	assert.Equal(t, pendingBefore, pendingAfter)
	assert.Equal(t, AramLobby, nav.Current())
}

func TestNavigator_PreviousScreenRoundTrip(t *testing.T) {
	nav, _ := newTestNavigator(t, nil)
	press(t, nav, "profile")
	require.Equal(t, Profile, nav.Current())

	tr := press(t, nav, "back")
	assert.Equal(t, PreviousScreen, tr.Declared)
	assert.Equal(t, MainScreen, tr.To)
	assert.Empty(t, tr.Advisories)
	assert.Equal(t, MainScreen, nav.Current())
	prev, ok := nav.Previous()
	require.True(t, ok)
	assert.Equal(t, Profile, prev)
}

func TestNavigator_PreviousScreenWithoutHistory(t *testing.T) {
	nav, logs := newTestNavigator(t, func(o *Options) {
		o.Start = Loot
		o.FallbackScreen = Collection
	})
	tr := press(t, nav, "back")
	assert.Equal(t, Collection, tr.To)
	assert.Equal(t, []Advisory{AdvisoryNoPrevious}, tr.Advisories)
	prev, ok := nav.Previous()
	require.True(t, ok)
	assert.Equal(t, Loot, prev)
	assert.NotEmpty(t, logs.FilterMessage("Sentinel target fell back to default").All())
}

func TestNavigator_GameModeMemory(t *testing.T) {
	t.Run("decline returns to the remembered lobby once", func(t *testing.T) {
		nav, _ := newTestNavigator(t, nil)
		press(t, nav, "play")
		press(t, nav, "aram")
		pending, ok := nav.PendingLobby()
		require.True(t, ok)
		assert.Equal(t, AramLobby, pending)

		press(t, nav, "find match")
		require.Equal(t, AcceptDecline, nav.Current())

		tr := press(t, nav, "decline")
		assert.Equal(t, GameLobby, tr.Declared)
		assert.Equal(t, AramLobby, tr.To)
		assert.Empty(t, tr.Advisories)
		_, ok = nav.PendingLobby()
		assert.False(t, ok, "pending lobby is consumed by the GameLobby target")

		prev, _ := nav.Previous()
		assert.Equal(t, AcceptDecline, prev)

		// A second decline has nothing remembered left.
		press(t, nav, "find match")
		tr = press(t, nav, "decline")
		assert.Equal(t, NormalLobby, tr.To)
		assert.Equal(t, []Advisory{AdvisoryNoPendingLobby}, tr.Advisories)
	})

	t.Run("disabled memory always falls back", func(t *testing.T) {
		nav, _ := newTestNavigator(t, func(o *Options) {
			o.RememberGameMode = false
			o.FallbackLobby = RankedLobby
		})
		press(t, nav, "play")
		press(t, nav, "aram")
		_, ok := nav.PendingLobby()
		assert.False(t, ok)

		press(t, nav, "find match")
		press(t, nav, "accept")
		tr := press(t, nav, "dodge")
		assert.Equal(t, RankedLobby, tr.To)
		assert.Equal(t, []Advisory{AdvisoryNoPendingLobby}, tr.Advisories)
	})

	t.Run("lobby targets outside game selection are not remembered", func(t *testing.T) {
		nav, _ := newTestNavigator(t, func(o *Options) { o.Start = NormalLobby })
		press(t, nav, "find match")
		_, ok := nav.PendingLobby()
		assert.False(t, ok)
	})
}

func TestNavigator_AdvanceFailureKeepsState(t *testing.T) {
	nav, _ := newTestNavigator(t, nil)
	bogus := Control{keyword: "bogus", template: "x.png", target: ScreenID(99)}

	_, err := nav.Advance(bogus)
	assert.ErrorIs(t, err, ErrUnknownScreen)
	assert.Equal(t, MainScreen, nav.Current())
	_, ok := nav.Previous()
	assert.False(t, ok)
}
