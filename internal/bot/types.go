package bot

import (
	"time"
)

// Constants
const (
	DefaultHTTPTimeout     = 120 * time.Second
	DefaultPollerTimeout   = 60 * time.Second
	DefaultRateLimit       = 20
	DefaultRateBurst       = 5
	StartedAtLayout        = "2006-01-02 15:04"
	defaultTelegramAPIURL  = "https://api.telegram.org"
	maxActiveJobsInListing = 20
)

// Command constants
const (
	CmdStart      = "/start"
	CmdInfo       = "/info"
	CmdCacheStats = "/cache_stats"
	CmdCacheClean = "/cache_clean"
	CmdActive     = "/active"
)

// IncomingMessage входящее текстовое сообщение
type IncomingMessage struct {
	ChatID       int64
	SenderID     int64
	Text         string
	LanguageCode string
	ReceivedAt   time.Time
}

// Audio аудиовложение для ответа
type Audio struct {
	Path      string
	Title     string
	Performer string
	Caption   string
	FileName  string
	Duration  time.Duration
}

// Replier отправляет ответы в чат
type Replier interface {
	SendText(chatID int64, text string) error
	SendAudio(chatID int64, audio Audio) error
}
