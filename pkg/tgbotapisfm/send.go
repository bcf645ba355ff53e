package tgbotapisfm

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SendMessageContext отправляет сообщение с учетом лимитов Telegram, ожидание лимита прерывается по ctx
func (b *Bot) SendMessageContext(ctx context.Context, msg tgbotapi.MessageConfig) (tgbotapi.Message, error) {
	if err := b.limiter.Wait(ctx, msg.ChatID); err != nil {
		return tgbotapi.Message{}, fmt.Errorf("rate limit wait: %w", err)
	}
	sent, err := b.BotAPI.Send(msg)
	if err != nil {
		return tgbotapi.Message{}, fmt.Errorf("send message to %d: %w", msg.ChatID, err)
	}
	return sent, nil
}

// AnswerCallback убирает "часики" с инлайн-кнопки. text - всплывающая подсказка, может быть пустым.
func (b *Bot) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := b.limiter.Wait(ctx, 0); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if _, err := b.BotAPI.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}
