package tg

import (
	"master_crm/internal/service/onboarding"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	skipButton    = "⏭ Пропустить"
	contactButton = "📱 Поделиться контактом"
)

// replyMarkup переводит клавиатуру ответа в разметку Telegram. nil - без клавиатуры.
func replyMarkup(k onboarding.Keyboard) interface{} {
	switch k {
	case onboarding.KeyboardRemove:
		return tgbotapi.NewRemoveKeyboard(true)
	case onboarding.KeyboardSkip:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(skipButton, onboarding.SkipData),
			),
		)
	case onboarding.KeyboardShareContact:
		kb := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButtonContact(contactButton),
			),
		)
		kb.OneTimeKeyboard = true
		return kb
	case onboarding.KeyboardMasterHome:
		return menuMarkup(onboarding.MasterMenu)
	case onboarding.KeyboardClientHome:
		return menuMarkup(onboarding.ClientMenu)
	}
	return nil
}

func menuMarkup(menu [][]onboarding.MenuItem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu))
	for _, line := range menu {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(line))
		for _, item := range line {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(item.Button, item.Data))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
