// Package menu models the bot's navigation as a typed state machine:
// every screen is a Menu value and back navigation is an ordered rule
// table instead of string matching on screen names.
package menu

// Game identifies the truck simulator a conversation is browsing.
type Game int

const (
	GameATS Game = iota
	GameETS2
)

// Label returns the button label for the game.
func (g Game) Label() string {
	if g == GameETS2 {
		return "ETS 2"
	}
	return "ATS"
}

// FileKey returns the game component of content file names. It is the
// lower-cased label, space included, matching the content tree layout.
func (g Game) FileKey() string {
	if g == GameETS2 {
		return "ets 2"
	}
	return "ats"
}

// Menu identifies a screen of the conversation.
type Menu int

const (
	None Menu = iota
	Start
	Main
	GameMenu
	Guides
	GuideLeaf
	Mods
	ModsTable
	Schmilfa
	Patch
	Social
	MapPacks
	MapPackLeaf
	Admin
	AdminStats
	Question
	BroadcastDraft
	BroadcastConfirm
)

var menuNames = map[Menu]string{
	None:             "none",
	Start:            "start",
	Main:             "main",
	GameMenu:         "game",
	Guides:           "guides",
	GuideLeaf:        "guide_leaf",
	Mods:             "mods",
	ModsTable:        "mods_table",
	Schmilfa:         "schmilfa",
	Patch:            "patch",
	Social:           "social",
	MapPacks:         "map_packs",
	MapPackLeaf:      "map_pack_leaf",
	Admin:            "admin",
	AdminStats:       "admin_stats",
	Question:         "question",
	BroadcastDraft:   "broadcast_draft",
	BroadcastConfirm: "broadcast_confirm",
}

func (m Menu) String() string {
	if name, ok := menuNames[m]; ok {
		return name
	}
	return "unknown"
}

// Back resolves the screen shown when the user presses "Назад". The rules
// are evaluated strictly in order; several of them overlap, so the order
// is part of the contract. Returning to the guides list from the question
// dialog screen is kept from an earlier menu layout.
func Back(current, previous Menu, selected Game) (Menu, Game) {
	switch {
	case current == Question:
		return Guides, selected
	case current == GuideLeaf:
		return Guides, selected
	case previous == Start || previous == Main:
		return Main, selected
	case previous == GameMenu:
		return GameMenu, selected
	case current == Admin:
		return Main, selected
	case current == MapPacks || current == MapPackLeaf:
		return GameMenu, GameETS2
	case previous == Guides:
		return Guides, selected
	case previous == Mods:
		return Mods, selected
	case previous == Social:
		return Social, selected
	default:
		return Main, selected
	}
}
