package menu

import "fmt"

// Button labels. The bot matches incoming message text against these
// exactly, so they double as routing keys.
const (
	LabelATS      = "ATS"
	LabelETS2     = "ETS 2"
	LabelAdmin    = "Админ"
	LabelAsk      = "Задать вопрос"
	LabelBack     = "Назад"
	LabelMainMenu = "Главное меню"

	LabelGuides   = "Гайды"
	LabelMods     = "Моды"
	LabelPatch    = "Обзор актуального патча"
	LabelSocial   = "Социальные сети"
	LabelMapPacks = "Сборки карт"

	LabelGuideNewbie   = "Гайд для новичка"
	LabelGuideConsole  = "Включить консоль и свободную камеру"
	LabelGuideCommands = "Консольные команды"
	LabelGuideConvoy   = "Конвой на 8+ человек"

	LabelModsTable = "Таблица модов"
	LabelSchmilfa  = "Талисман 'Шмилфа' в кабину"
	LabelGoldRus   = "Золотая сборка Русских карт"

	LabelStats       = "Статистика"
	LabelOpenTickets = "Открытые вопросы"
	LabelBroadcast   = "Рассылка"
	LabelExportUsers = "Выгрузка пользователей"

	LabelEndDialog = "Завершить диалог"
)

var guideFiles = map[string]string{
	LabelGuideNewbie:   "guides/guide.txt",
	LabelGuideConsole:  "guides/console_on.txt",
	LabelGuideCommands: "guides/console_commands.txt",
	LabelGuideConvoy:   "guides/convoy_8plus.txt",
}

// GuideFile maps a guide topic label to its content file. Unknown topics
// fall back to the newbie guide.
func GuideFile(topic string) string {
	if f, ok := guideFiles[topic]; ok {
		return f
	}
	return "guides/guide.txt"
}

// PatchFile returns the patch overview file for a game.
func PatchFile(g Game) string {
	return fmt.Sprintf("patches/patch_%s.txt", g.FileKey())
}

// SchmilfaFile returns the cabin mascot mod file for a game.
func SchmilfaFile(g Game) string {
	return fmt.Sprintf("mods/schmilfa_in_cabin_%s.txt", g.FileKey())
}

// ModsTableFile is the shared mods table content file.
const ModsTableFile = "mods/mods_table.txt"

// GoldRusFile is the ETS2 "golden" Russian map pack content file.
const GoldRusFile = "maps/gold_rus.txt"
