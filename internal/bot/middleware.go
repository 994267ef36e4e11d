package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// Middleware для логирования и ограничения частоты сообщений
func (b *Bot) setupMiddleware() {
	b.api.Use(b.logUpdates, b.rateLimit)
}

func (b *Bot) logUpdates(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		update := c.Update()
		if update.Message != nil && update.Message.Sender != nil {
			b.logger.Info("Message: user_id=%d, chat_id=%d, text=%q",
				update.Message.Sender.ID, update.Message.Chat.ID, update.Message.Text)
		}
		return next(c)
	}
}

func (b *Bot) rateLimit(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if chat := c.Chat(); chat != nil && !b.limiter.Allow(chat.ID) {
			b.logger.Warning("Превышен лимит сообщений для чата %d, сообщение пропущено", chat.ID)
			return nil
		}
		return next(c)
	}
}

// chatLimiter ограничивает количество сообщений в минуту для каждого чата
type chatLimiter struct {
	mutex    sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// newChatLimiter возвращает nil, если ограничение выключено
func newChatLimiter(perMinute, burst int) *chatLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &chatLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (l *chatLimiter) Allow(chatID int64) bool {
	if l == nil {
		return true
	}
	l.mutex.Lock()
	limiter, ok := l.limiters[chatID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[chatID] = limiter
	}
	l.mutex.Unlock()
	return limiter.Allow()
}
