package tgbotapisfm

import (
	"context"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Лимиты Telegram: около 30 сообщений в секунду на бота и 1 в секунду в один чат
const (
	globalRate   = rate.Limit(30)
	globalBurst  = 30
	perChatRate  = rate.Limit(1)
	perChatBurst = 3

	chatLimiterTTL = 10 * time.Minute
)

// Limiter ограничивает отправку сообщений: общий лимит на бота и отдельный на каждый чат.
// Лимитеры чатов живут в кеше и удаляются, если в чат давно не писали.
type Limiter struct {
	global *rate.Limiter
	chats  *gocache.Cache
	mu     sync.Mutex
}

func NewLimiter() *Limiter {
	return &Limiter{
		global: rate.NewLimiter(globalRate, globalBurst),
		chats:  gocache.New(chatLimiterTTL, chatLimiterTTL),
	}
}

func (l *Limiter) chat(chatID int64) *rate.Limiter {
	key := strconv.FormatInt(chatID, 10)

	l.mu.Lock()
	defer l.mu.Unlock()
	if x, ok := l.chats.Get(key); ok {
		if lim, ok := x.(*rate.Limiter); ok {
			// продлеваем жизнь активному чату
			l.chats.SetDefault(key, lim)
			return lim
		}
	}
	lim := rate.NewLimiter(perChatRate, perChatBurst)
	l.chats.SetDefault(key, lim)
	return lim
}

// Wait ждет, пока можно отправить сообщение в чат. chatID=0 - только общий лимит.
func (l *Limiter) Wait(ctx context.Context, chatID int64) error {
	if chatID != 0 {
		if err := l.chat(chatID).Wait(ctx); err != nil {
			return err
		}
	}
	return l.global.Wait(ctx)
}
