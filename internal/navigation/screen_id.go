// internal/navigation/screen_id.go
package navigation

import (
	"fmt"
	"strings"
)

// ScreenID names a screen of the game client. Two values are sentinels: they
// can be declared as a control target but never become the current screen.
type ScreenID int

const (
	ScreenUnknown ScreenID = iota

	// -- Concrete screens --
	MainScreen
	GameSelection
	NormalLobby
	RankedLobby
	AramLobby
	AcceptDecline
	ChampSelect
	Profile
	Collection
	Loot
	Store
	Clash

	// -- Sentinel targets --

	// PreviousScreen resolves to whatever screen was current before the
	// screen the control lives on.
	PreviousScreen
	// GameLobby resolves to the lobby remembered for the game mode picked on
	// the GameSelection screen.
	GameLobby
)

var screenLabels = map[ScreenID]string{
	MainScreen:     "Main screen",
	GameSelection:  "Game selection",
	NormalLobby:    "Normal lobby",
	RankedLobby:    "Ranked lobby",
	AramLobby:      "ARAM lobby",
	AcceptDecline:  "Accept / decline",
	ChampSelect:    "Champ select",
	Profile:        "Profile",
	Collection:     "Collection",
	Loot:           "Loot",
	Store:          "Store",
	Clash:          "Clash",
	PreviousScreen: "Previous screen",
	GameLobby:      "Game lobby",
}

// screenKeys is the spelling used in configuration files and CLI flags.
var screenKeys = map[string]ScreenID{
	"main":           MainScreen,
	"game_selection": GameSelection,
	"normal_lobby":   NormalLobby,
	"ranked_lobby":   RankedLobby,
	"aram_lobby":     AramLobby,
	"accept_decline": AcceptDecline,
	"champ_select":   ChampSelect,
	"profile":        Profile,
	"collection":     Collection,
	"loot":           Loot,
	"store":          Store,
	"clash":          Clash,
}

func (id ScreenID) String() string {
	if label, ok := screenLabels[id]; ok {
		return label
	}
	return fmt.Sprintf("ScreenID(%d)", int(id))
}

// Key returns the configuration spelling of a concrete screen, or "" for
// sentinels and unknown ids.
func (id ScreenID) Key() string {
	for k, v := range screenKeys {
		if v == id {
			return k
		}
	}
	return ""
}

// IsSentinel reports whether id is a contextual target rather than a screen.
func (id ScreenID) IsSentinel() bool {
	return id == PreviousScreen || id == GameLobby
}

// IsLobby reports whether id belongs to the game-lobby family.
func (id ScreenID) IsLobby() bool {
	switch id {
	case NormalLobby, RankedLobby, AramLobby:
		return true
	default:
		return false
	}
}

// ParseScreenID maps a configuration key such as "normal_lobby" to its ScreenID.
// Sentinels are not accepted.
func ParseScreenID(s string) (ScreenID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if id, ok := screenKeys[key]; ok {
		return id, nil
	}
	return ScreenUnknown, fmt.Errorf("%w: %q", ErrUnknownScreen, s)
}

// MarshalText encodes concrete screens by their key and sentinels by a
// snake_case name, so JSON output stays stable if labels change.
func (id ScreenID) MarshalText() ([]byte, error) {
	switch id {
	case PreviousScreen:
		return []byte("previous_screen"), nil
	case GameLobby:
		return []byte("game_lobby"), nil
	}
	if k := id.Key(); k != "" {
		return []byte(k), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownScreen, int(id))
}
