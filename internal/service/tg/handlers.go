// Package tg связывает фронты регистрации с ботами Telegram:
// разбирает обновления, вызывает фронт и отправляет ответы.
package tg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"master_crm/internal/service/flow"
	"master_crm/internal/service/onboarding"
	"master_crm/pkg/tgbotapisfm"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Состояния пользователя в боте
const (
	StateCommands     = "commands"
	StateIdle         = "idle"
	StateRegistration = "registration"
)

var errNoChat = errors.New("update has no chat")

// Front - то общее, что умеют фронты мастера и клиента
type Front interface {
	Home(ctx context.Context, userID int64) (onboarding.Outcome, error)
	Handle(ctx context.Context, userID int64, in flow.Input) (onboarding.Outcome, error)
}

// StartFunc - обработка /start, args - все после команды (токен приглашения)
type StartFunc func(ctx context.Context, userID int64, args string) (onboarding.Outcome, error)

type TGHandler struct {
	front   Front
	start   StartFunc
	menu    [][]onboarding.MenuItem
	timeout time.Duration
	logger  *zap.Logger
}

func NewMasterHandler(front *onboarding.MasterFront, timeout time.Duration, logger *zap.Logger) *TGHandler {
	return &TGHandler{
		front: front,
		start: func(ctx context.Context, userID int64, _ string) (onboarding.Outcome, error) {
			return front.Start(ctx, userID)
		},
		menu:    onboarding.MasterMenu,
		timeout: timeout,
		logger:  logger.Named("master_bot"),
	}
}

func NewClientHandler(front *onboarding.ClientFront, timeout time.Duration, logger *zap.Logger) *TGHandler {
	return &TGHandler{
		front:   front,
		start:   front.Start,
		menu:    onboarding.ClientMenu,
		timeout: timeout,
		logger:  logger.Named("client_bot"),
	}
}

func (h *TGHandler) StatesMap() map[string]tgbotapisfm.State {
	return map[string]tgbotapisfm.State{
		StateCommands:     h.CommandsState(),
		StateIdle:         h.IdleState(),
		StateRegistration: h.RegistrationState(),
	}
}

// CommandsState - команды и кнопки меню, доступные из любого состояния
func (h *TGHandler) CommandsState() tgbotapisfm.State {
	callbacks := make(map[string]tgbotapisfm.Handler)
	for _, line := range h.menu {
		for _, item := range line {
			callbacks[item.Data] = h.PlaceholderHandler(item)
		}
	}
	return tgbotapisfm.State{
		Global: true,
		CommandHandlers: map[string]tgbotapisfm.Handler{
			"start": h.StartHandler(),
			"home":  h.HomeHandler(),
		},
		CallbackHandlers: callbacks,
	}
}

// IdleState - пользователь не проходит регистрацию
func (h *TGHandler) IdleState() tgbotapisfm.State {
	return tgbotapisfm.State{
		CatchAllFunc: &tgbotapisfm.Handler{Handle: h.handleInput},
	}
}

// RegistrationState - любое сообщение считается ответом на текущий вопрос анкеты
func (h *TGHandler) RegistrationState() tgbotapisfm.State {
	return tgbotapisfm.State{
		CatchAllFunc: &tgbotapisfm.Handler{Handle: h.handleInput},
		CallbackHandlers: map[string]tgbotapisfm.Handler{
			onboarding.SkipData: {Handle: h.handleInput},
		},
	}
}

func (h *TGHandler) StartHandler() tgbotapisfm.Handler {
	return tgbotapisfm.NewHandler(func(bot *tgbotapisfm.Bot, update tgbotapi.Update) error {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		out, err := h.start(ctx, update.Message.From.ID, strings.TrimSpace(update.Message.CommandArguments()))
		return h.respond(ctx, bot, update, out, err)
	})
}

func (h *TGHandler) HomeHandler() tgbotapisfm.Handler {
	return tgbotapisfm.NewHandler(func(bot *tgbotapisfm.Bot, update tgbotapi.Update) error {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		out, err := h.front.Home(ctx, update.Message.From.ID)
		return h.respond(ctx, bot, update, out, err)
	})
}

// PlaceholderHandler - кнопка раздела, который еще не готов.
// Ответ всплывает подсказкой над кнопкой, в чат ничего не пишем.
func (h *TGHandler) PlaceholderHandler(item onboarding.MenuItem) tgbotapisfm.Handler {
	return tgbotapisfm.NewHandler(func(bot *tgbotapisfm.Bot, update tgbotapi.Update) error {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		return answerPlaceholder(ctx, bot, update, item)
	})
}

type callbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

func answerPlaceholder(ctx context.Context, bot callbackAnswerer, update tgbotapi.Update, item onboarding.MenuItem) error {
	if update.CallbackQuery == nil {
		return nil
	}
	return bot.AnswerCallback(ctx, update.CallbackQuery.ID, onboarding.PlaceholderText(item))
}

func (h *TGHandler) handleInput(bot *tgbotapisfm.Bot, update tgbotapi.Update) error {
	in, ok := inputFromUpdate(update)
	if !ok {
		h.answer(context.Background(), bot, update)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	out, err := h.front.Handle(ctx, update.SentFrom().ID, in)
	return h.respond(ctx, bot, update, out, err)
}

// inputFromUpdate: контакт, текст или кнопка "Пропустить". false - обновление не относится к анкете.
func inputFromUpdate(update tgbotapi.Update) (flow.Input, bool) {
	switch {
	case update.Message != nil && update.Message.Contact != nil:
		return flow.Contact(update.Message.Contact.PhoneNumber), true
	case update.Message != nil && update.Message.Text != "":
		return flow.Text(update.Message.Text), true
	case update.CallbackQuery != nil && update.CallbackQuery.Data == onboarding.SkipData:
		return flow.Skip(), true
	}
	return flow.Input{}, false
}

// respond отправляет ответы фронта и переключает состояние пользователя.
// Ответы отправляются и при ошибке фронта: там сообщение для пользователя.
func (h *TGHandler) respond(ctx context.Context, bot *tgbotapisfm.Bot, update tgbotapi.Update, out onboarding.Outcome, frontErr error) error {
	h.answer(ctx, bot, update)

	userID := update.SentFrom().ID
	if out.Active {
		if err := bot.SetUserState(userID, StateRegistration); err != nil {
			h.logger.Error("set user state", zap.Int64("user_id", userID), zap.Error(err))
		}
	} else {
		bot.ClearUserState(userID)
	}

	chat := update.FromChat()
	if chat == nil {
		return errors.Join(frontErr, errNoChat)
	}
	var sendErr error
	for _, reply := range out.Replies {
		msg := tgbotapi.NewMessage(chat.ID, reply.Text)
		if markup := replyMarkup(reply.Keyboard); markup != nil {
			msg.ReplyMarkup = markup
		}
		if _, err := bot.SendMessageContext(ctx, msg); err != nil {
			sendErr = fmt.Errorf("send reply: %w", err)
			break
		}
	}
	return errors.Join(frontErr, sendErr)
}

// answer гасит индикатор загрузки на нажатой кнопке
func (h *TGHandler) answer(ctx context.Context, bot *tgbotapisfm.Bot, update tgbotapi.Update) {
	if update.CallbackQuery == nil {
		return
	}
	if err := bot.AnswerCallback(ctx, update.CallbackQuery.ID, ""); err != nil {
		h.logger.Warn("answer callback", zap.Error(err))
	}
}
