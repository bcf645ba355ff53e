package tg

import (
	"context"
	"testing"
	"time"

	"master_crm/internal/service/flow"
	"master_crm/internal/service/onboarding"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInputFromUpdate(t *testing.T) {
	contact := tgbotapi.Update{Message: &tgbotapi.Message{
		Contact: &tgbotapi.Contact{PhoneNumber: "79123456789"},
	}}
	in, ok := inputFromUpdate(contact)
	require.True(t, ok)
	assert.Equal(t, flow.Contact("79123456789"), in)

	text := tgbotapi.Update{Message: &tgbotapi.Message{Text: "Анна"}}
	in, ok = inputFromUpdate(text)
	require.True(t, ok)
	assert.Equal(t, flow.Text("Анна"), in)

	skip := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{Data: onboarding.SkipData}}
	in, ok = inputFromUpdate(skip)
	require.True(t, ok)
	assert.Equal(t, flow.Skip(), in)

	_, ok = inputFromUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{Data: "other"}})
	assert.False(t, ok)

	// стикер: ни текста, ни контакта
	_, ok = inputFromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{}})
	assert.False(t, ok)
}

func TestReplyMarkup(t *testing.T) {
	assert.Nil(t, replyMarkup(onboarding.KeyboardNone))
	assert.IsType(t, tgbotapi.ReplyKeyboardRemove{}, replyMarkup(onboarding.KeyboardRemove))

	skip, ok := replyMarkup(onboarding.KeyboardSkip).(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, skip.InlineKeyboard, 1)
	require.NotNil(t, skip.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, onboarding.SkipData, *skip.InlineKeyboard[0][0].CallbackData)

	contact, ok := replyMarkup(onboarding.KeyboardShareContact).(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, contact.Keyboard[0][0].RequestContact)
	assert.True(t, contact.OneTimeKeyboard)

	menu, ok := replyMarkup(onboarding.KeyboardClientHome).(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, menu.InlineKeyboard, len(onboarding.ClientMenu))
	assert.Equal(t, "bonuses", *menu.InlineKeyboard[0][0].CallbackData)
}

func TestStatesMap(t *testing.T) {
	h := NewMasterHandler(nil, time.Second, zaptest.NewLogger(t))
	states := h.StatesMap()

	require.Contains(t, states, StateCommands)
	require.Contains(t, states, StateIdle)
	require.Contains(t, states, StateRegistration)

	commands := states[StateCommands]
	assert.True(t, commands.Global)
	assert.Contains(t, commands.CommandHandlers, "start")
	assert.Contains(t, commands.CommandHandlers, "home")
	for _, data := range []string{"orders", "clients", "marketing", "reports", "settings"} {
		assert.Contains(t, commands.CallbackHandlers, data)
	}
	assert.Contains(t, states[StateRegistration].CallbackHandlers, onboarding.SkipData)
	assert.NotNil(t, states[StateIdle].CatchAllFunc)
}

type answers map[string]string

func (a answers) AnswerCallback(_ context.Context, callbackID, text string) error {
	a[callbackID] = text
	return nil
}

func TestAnswerPlaceholder(t *testing.T) {
	got := answers{}
	item := onboarding.MasterMenu[0][0]
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb-1", Data: item.Data}}

	require.NoError(t, answerPlaceholder(context.Background(), got, update, item))
	assert.Equal(t, answers{"cb-1": onboarding.PlaceholderText(item)}, got)

	// сообщение без callback: отвечать некому
	require.NoError(t, answerPlaceholder(context.Background(), got, tgbotapi.Update{Message: &tgbotapi.Message{}}, item))
	assert.Len(t, got, 1)
}
