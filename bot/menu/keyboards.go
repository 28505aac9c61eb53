package menu

// MainRows returns the top-level keyboard. The admin row is appended only
// for allow-listed identities.
func MainRows(isAdmin bool) [][]string {
	rows := [][]string{
		{LabelATS, LabelETS2},
		{LabelAsk},
	}
	if isAdmin {
		rows = append(rows, []string{LabelAdmin})
	}
	return rows
}

// GameRows returns the per-game submenu keyboard. Map packs exist for
// ETS2 only.
func GameRows(g Game) [][]string {
	rows := [][]string{
		{LabelGuides, LabelMods},
		{LabelPatch, LabelSocial},
	}
	if g == GameETS2 {
		rows = append(rows, []string{LabelMapPacks})
	}
	return append(rows, []string{LabelBack})
}

// GuidesRows returns the guide topic keyboard.
func GuidesRows() [][]string {
	return [][]string{
		{LabelGuideNewbie},
		{LabelGuideConsole},
		{LabelGuideCommands},
		{LabelGuideConvoy},
		{LabelBack},
	}
}

// ModsRows returns the mods submenu keyboard.
func ModsRows() [][]string {
	return [][]string{
		{LabelModsTable, LabelSchmilfa},
		{LabelBack},
	}
}

// MapPacksRows returns the ETS2 map pack keyboard.
func MapPacksRows() [][]string {
	return [][]string{
		{LabelGoldRus},
		{LabelBack},
	}
}

// AdminRows returns the admin submenu keyboard.
func AdminRows() [][]string {
	return [][]string{
		{LabelStats},
		{LabelOpenTickets},
		{LabelBroadcast},
		{LabelExportUsers},
		{LabelMainMenu},
	}
}

// DialogRows returns the keyboard shown during an active question dialog.
func DialogRows() [][]string {
	return [][]string{
		{LabelEndDialog},
		{LabelMainMenu},
	}
}

// BackRows returns the single-button back keyboard used on content leaves.
func BackRows() [][]string {
	return [][]string{{LabelBack}}
}
