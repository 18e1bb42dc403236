// internal/navigation/catalog.go
package navigation

// controlSpec is the declarative form of a Control, validated when the
// Registry is built.
type controlSpec struct {
	keyword  string
	template TemplateRef
	target   ScreenID
}

type screenSpec struct {
	id       ScreenID
	controls map[Language][]controlSpec
}

// catalog declares every screen the agent knows how to drive and, per
// language, the buttons on it. Declaration order is match order.
var catalog = []screenSpec{
	{
		id: MainScreen,
		controls: map[Language][]controlSpec{
			English: {
				{"play", "en/main/play.png", GameSelection},
				{"home", "en/main/home.png", MainScreen},
				{"tft", "en/main/tft.png", GameSelection},
				{"clash", "en/main/clash.png", Clash},
				{"profile", "en/main/profile.png", Profile},
				{"collection", "en/main/collection.png", Collection},
				{"loot", "en/main/loot.png", Loot},
				{"your shop", "en/main/your_shop.png", Store},
				{"shop", "en/main/shop.png", Store},
			},
			Spanish: {
				{"jugar", "es/main/jugar.png", GameSelection},
				{"inicio", "es/main/inicio.png", MainScreen},
				{"clash", "es/main/clash.png", Clash},
				{"perfil", "es/main/perfil.png", Profile},
				{"colección", "es/main/coleccion.png", Collection},
				{"botín", "es/main/botin.png", Loot},
				{"tienda", "es/main/tienda.png", Store},
			},
		},
	},
	{
		id: GameSelection,
		controls: map[Language][]controlSpec{
			English: {
				{"normal", "en/game_selection/normal.png", NormalLobby},
				{"aram", "en/game_selection/aram.png", AramLobby},
				{"close", "en/game_selection/close.png", PreviousScreen},
			},
			Spanish: {
				{"normal", "es/game_selection/normal.png", NormalLobby},
				{"ranked", "es/game_selection/ranked.png", RankedLobby},
				{"clasificatoria", "es/game_selection/ranked.png", RankedLobby},
				{"aram", "es/game_selection/aram.png", AramLobby},
				{"cerrar", "es/game_selection/cerrar.png", PreviousScreen},
			},
		},
	},
	lobbySpec(NormalLobby, "normal_lobby"),
	lobbySpec(RankedLobby, "ranked_lobby"),
	lobbySpec(AramLobby, "aram_lobby"),
	{
		id: AcceptDecline,
		controls: map[Language][]controlSpec{
			English: {
				{"accept", "en/accept_decline/accept.png", ChampSelect},
				{"decline", "en/accept_decline/decline.png", GameLobby},
			},
			Spanish: {
				{"aceptar", "es/accept_decline/aceptar.png", ChampSelect},
				{"rechazar", "es/accept_decline/rechazar.png", GameLobby},
			},
		},
	},
	{
		id: ChampSelect,
		controls: map[Language][]controlSpec{
			English: {
				{"lock in", "en/champ_select/lock_in.png", ChampSelect},
				{"ban", "en/champ_select/ban.png", ChampSelect},
				{"dodge", "en/champ_select/dodge.png", GameLobby},
			},
			Spanish: {
				{"fijar", "es/champ_select/fijar.png", ChampSelect},
				{"prohibir", "es/champ_select/prohibir.png", ChampSelect},
			},
		},
	},
	menuSpec(Profile, "profile"),
	menuSpec(Collection, "collection"),
	menuSpec(Loot, "loot"),
	menuSpec(Store, "store"),
	menuSpec(Clash, "clash"),
}

// lobbySpec declares the controls shared by every game-mode lobby.
func lobbySpec(id ScreenID, dir string) screenSpec {
	en := "en/" + dir + "/"
	es := "es/" + dir + "/"
	return screenSpec{
		id: id,
		controls: map[Language][]controlSpec{
			English: {
				{"find match", TemplateRef(en + "find_match.png"), AcceptDecline},
				{"back", TemplateRef(en + "back.png"), PreviousScreen},
				{"leave", TemplateRef(en + "leave.png"), MainScreen},
			},
			Spanish: {
				{"buscar partida", TemplateRef(es + "buscar_partida.png"), AcceptDecline},
				{"volver", TemplateRef(es + "volver.png"), PreviousScreen},
				{"salir", TemplateRef(es + "salir.png"), MainScreen},
			},
		},
	}
}

// menuSpec declares a top-level menu page reached from the main screen.
// These pages are not localized yet and answer every language with the
// English table.
func menuSpec(id ScreenID, dir string) screenSpec {
	en := "en/" + dir + "/"
	return screenSpec{
		id: id,
		controls: map[Language][]controlSpec{
			English: {
				{"home", TemplateRef(en + "home.png"), MainScreen},
				{"back", TemplateRef(en + "back.png"), PreviousScreen},
			},
		},
	}
}
