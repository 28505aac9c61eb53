package bot

// User-facing texts. The bot speaks Russian; formatting directives mark
// the slots filled at send time.
const (
	textChooseGame    = "Выберите игру :"
	textChooseOption  = "Выберите опцию для %s:"
	textChooseGuide   = "Выберите гайд:"
	textChooseMods    = "Выберите опцию:"
	textChooseMapPack = "Выберите сборку карт:"
	textAdminMenu     = "Административное меню:"

	textSocial     = "Добро пожаловать в наши социальные сети! 📱\n\nОставайтесь на связи и следите за всеми важными обновлениями:"
	textSocialBack = "Нажмите 'Назад' для возврата в предыдущее меню:"

	textNoAccess    = "У вас нет доступа к этой функции."
	textUseButtons  = "Пожалуйста, используйте кнопки меню для навигации."
	textBotRejected = "Извините, боты не могут использовать этого бота."

	textGuideNotFound = "Гайд '%s' не найден."
	textPatchNotFound = "Обзор актуального патча для %s не найден."
	textFileNotFound  = "Файл не найден."

	textGenericError  = "Произошла ошибка, попробуйте позже."
	textCallbackRetry = "Не удалось обработать действие, попробуйте ещё раз."

	textAskQuestion      = "Напишите ваш вопрос одним сообщением:"
	textQuestionAccepted = "Ваш вопрос отправлен. Администратор свяжется с вами здесь."
	textNoActiveDialog   = "У вас нет активного диалога. Чтобы задать вопрос, нажмите 'Задать вопрос'."
	textDialogJoined     = "Администратор подключился к диалогу. Пишите сообщения прямо здесь."
	textDialogClosed     = "Диалог завершён."
	textAdminNewTicket   = "Новый вопрос #%d от %s:\n\n%s"
	textAdminRelay       = "Сообщение по вопросу #%d:\n\n%s"
	textTicketClaimed    = "Вы взяли вопрос #%d в работу. Ваши сообщения будут пересылаться пользователю."
	textTicketClosed     = "Вопрос #%d закрыт."
	textTicketGone       = "Вопрос уже закрыт или не найден."
	textNoOpenTickets    = "Открытых вопросов нет."
	textOpenTicket       = "Вопрос #%d от %d [%s]:\n\n%s"

	textUserCount     = "Количество пользователей в базе данных: %d"
	textExportCaption = "Список пользователей."
	textExportEmpty   = "В базе данных нет пользователей."

	textBroadcastPrompt    = "Отправьте сообщение для рассылки: текст или фото с подписью."
	textBroadcastConfirm   = "Отправить это сообщение всем пользователям?"
	textBroadcastCancelled = "Рассылка отменена."
	textBroadcastReport    = "Рассылка завершена. Доставлено: %d, не доставлено: %d."
	textBroadcastNoDraft   = "Черновик рассылки не найден, начните заново."

	labelSocialTelegram = "✈️ Подписаться в Telegram"
	labelSocialYouTube  = "📺 Подписаться на YouTube"
	labelSocialDzen     = "📺 Подписаться на Дзен"
	labelModsLink       = "Ссылка на моды"

	urlSocialTelegram = "https://t.me/banka_alivok"
	urlSocialYouTube  = "https://www.youtube.com/user/TheAlive55?sub_confirmation=1"
	urlSocialDzen     = "https://dzen.ru/thealive55"
	urlModsLink       = "https://clck.ru/Xxs42"

	labelBroadcastSend   = "Отправить"
	labelBroadcastCancel = "Отменить"
	labelTicketClaim     = "Ответить"
	labelTicketClose     = "Закрыть"
)

// Callback uniques. These are the routing keys carried inside inline
// button tokens.
const (
	cbTicketClaim     = "qclaim"
	cbTicketClose     = "qclose"
	cbBroadcastSend   = "bccfm"
	cbBroadcastCancel = "bccancel"
)
