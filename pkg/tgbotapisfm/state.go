package tgbotapisfm

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// HandlerFunc функция-обработчик обновления
type HandlerFunc func(bot *Bot, update tgbotapi.Update) error

// Handler обертка над обработчиком
type Handler struct {
	Handle HandlerFunc
}

// State - набор обработчиков, который действует, пока пользователь в этом состоянии
type State struct {
	// Global - состояние проверяется для любого пользователя до его собственного состояния
	Global bool

	CatchAllFunc *Handler // Вызывается, если не нашлось подходящего обработчика

	CommandHandlers  map[string]Handler // Команды без "/" и без @username бота: "start", "home"
	MessageHandlers  map[string]Handler // Точный текст сообщения в нижнем регистре
	CallbackHandlers map[string]Handler // Data инлайн-кнопки
}

// NewHandler сокращение для Handler{Handle: f}
func NewHandler(f HandlerFunc) Handler {
	return Handler{Handle: f}
}
