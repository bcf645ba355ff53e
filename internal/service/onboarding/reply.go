// Package onboarding - фронты мастерского и клиентского ботов.
//
// Фронт принимает события (старт, домой, ввод, пропуск), ведет анкету и
// возвращает ответы, которые транспорт отрисовывает как сообщения с клавиатурами.
// Про Telegram пакет ничего не знает.
package onboarding

import (
	"fmt"
	"strings"

	"master_crm/internal/service/home"
)

// Keyboard - какую клавиатуру приложить к ответу
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	// Убрать reply-клавиатуру
	KeyboardRemove
	KeyboardSkip
	KeyboardShareContact
	KeyboardMasterHome
	KeyboardClientHome
)

// SkipData - callback кнопки "Пропустить"
const SkipData = "skip"

type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Outcome - ответы на событие. Active - у пользователя после события есть незавершенная анкета.
type Outcome struct {
	Replies []Reply
	Active  bool
}

type MenuItem struct {
	Data    string
	Button  string
	Section string
}

var MasterMenu = [][]MenuItem{
	{{"orders", "📦 Заказы", "Заказы"}, {"clients", "👥 Клиенты", "Клиенты"}},
	{{"marketing", "📢 Маркетинг", "Маркетинг"}, {"reports", "📊 Отчёты", "Отчёты"}},
	{{"settings", "⚙️ Настройки", "Настройки"}},
}

var ClientMenu = [][]MenuItem{
	{{"bonuses", "💰 Мои бонусы", "Мои бонусы"}, {"history", "📋 История", "История"}},
	{{"promos", "🎁 Акции", "Акции"}, {"order_request", "📞 Заказать", "Заказать"}},
	{{"question", "❓ Вопрос", "Вопрос"}, {"media", "📸 Фото/видео", "Фото/видео"}},
	{{"notifications", "🔔 Уведомления", "Уведомления"}},
}

// PlaceholderText - ответ на кнопку раздела, которого еще нет
func PlaceholderText(item MenuItem) string {
	return fmt.Sprintf("Раздел '%s' будет доступен в следующей версии", item.Section)
}

const (
	textTemporaryError     = "Что-то пошло не так. Попробуйте еще раз чуть позже."
	textRegistrationFailed = "Не удалось завершить регистрацию. Попробуйте еще раз: отправьте /start."
	textSkipNotAllowed     = "Этот шаг нельзя пропустить."

	textMasterWelcome = "👋 Добро пожаловать в Master CRM Bot!\n\n" +
		"Давайте настроим ваш профиль.\n\n" +
		"📝 Введите ваше имя или псевдоним:"
	textMasterNotRegistered = "Вы ещё не зарегистрированы. Отправьте /start"

	textClientNoToken = "👋 Добро пожаловать!\n\n" +
		"Для регистрации нужна ссылка от вашего мастера.\n" +
		"Попросите мастера отправить вам персональную ссылку."
	textClientInvalidToken = "❌ Ссылка недействительна.\n\n" +
		"Попросите мастера отправить вам актуальную ссылку."
	textClientNotRegistered = "Вы ещё не зарегистрированы. Перейдите по ссылке от мастера."
	textClientDone          = "✅ Регистрация завершена!\n\nДобро пожаловать!"

	// /start без токена в клиентском боте анкету не начнет, нужна ссылка
	textClientRegistrationFailed = "Не удалось завершить регистрацию. Откройте ссылку мастера ещё раз и повторите."
)

func masterDoneText(link string) string {
	return "✅ Регистрация завершена!\n\n" +
		"Ваша ссылка для приглашения клиентов:\n" +
		link + "\n\n" +
		"Отправьте её клиентам, чтобы они могли зарегистрироваться."
}

func clientWelcomeText(masterName string) string {
	return fmt.Sprintf("👋 Привет! Вы переходите к мастеру: %s\n\n"+
		"Давайте познакомимся.\n\n"+
		"📝 Как вас зовут?", masterName)
}

// MasterHomeReply - главный экран мастера
func MasterHomeReply(h *home.MasterHome) Reply {
	schedule := "• Нет записей на сегодня"
	if len(h.Schedule) > 0 {
		lines := make([]string, len(h.Schedule))
		for i, s := range h.Schedule {
			lines[i] = "• " + s
		}
		schedule = strings.Join(lines, "\n")
	}

	text := fmt.Sprintf("👋 Привет, %s!\n\n"+
		"📅 Сегодня, %s:\n"+
		"%s\n\n"+
		"━━━━━━━━━━━━━━━\n"+
		"🔗 Ссылка для клиентов:\n"+
		"%s",
		h.Master.Name, h.Today.Format("02.01.2006"), schedule, h.InviteLink)
	return Reply{Text: text, Keyboard: KeyboardMasterHome}
}

// ClientHomeReply - главный экран клиента
func ClientHomeReply(h *home.ClientHome) Reply {
	text := fmt.Sprintf("👋 Привет, %s!\n\n"+
		"Ваш мастер: %s\n"+
		"💰 Бонусов: %d ₽",
		h.Client.Name, h.Master.Name, h.Relationship.BonusBalance)
	return Reply{Text: text, Keyboard: KeyboardClientHome}
}
