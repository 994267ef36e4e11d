package bot

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	tele "gopkg.in/telebot.v4"

	"github.com/us3rdie/yt-to-mp3/internal/downloader"
	"github.com/us3rdie/yt-to-mp3/internal/i18n"
	"github.com/us3rdie/yt-to-mp3/internal/logger"
	"github.com/us3rdie/yt-to-mp3/internal/storage"
)

// Dependencies внешние компоненты бота
type Dependencies struct {
	Cache      storage.AudioCache
	Fetcher    downloader.Fetcher
	Transcoder downloader.Transcoder
	Texts      *i18n.Manager
}

// Bot сессия бота: соединение с Telegram, время запуска и обработчики
type Bot struct {
	api       *tele.Bot
	config    *BotConfig
	cache     storage.AudioCache
	texts     *i18n.Manager
	jobs      *JobTracker
	handler   *AudioHandler
	limiter   *chatLimiter
	startedAt time.Time
	ctx       context.Context
	logger    *logger.Logger
}

// NewBot подключается к Telegram и собирает обработчики
func NewBot(config *BotConfig, deps Dependencies) (*Bot, error) {
	log := logger.New("BOT")
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if deps.Cache == nil || deps.Fetcher == nil || deps.Transcoder == nil || deps.Texts == nil {
		return nil, errors.New("не заданы зависимости бота")
	}

	settings := tele.Settings{
		Token:  config.Token,
		URL:    config.TelegramAPIURL,
		Poller: &tele.LongPoller{Timeout: DefaultPollerTimeout},
		// Увеличиваем таймаут HTTP-клиента для отправки больших файлов
		Client: &http.Client{Timeout: config.HTTPTimeout},
		OnError: func(err error, c tele.Context) {
			if c != nil && c.Chat() != nil {
				log.Error("Ошибка обработки апдейта в чате %d: %v", c.Chat().ID, err)
				return
			}
			log.Error("Ошибка: %v", err)
		},
	}
	log.Info("URL API: %s", settings.URL)

	api, err := tele.NewBot(settings)
	if err != nil {
		return nil, errors.Wrap(err, "не удалось подключиться к Telegram")
	}
	log.Info("Бот @%s успешно инициализирован", api.Me.Username)

	return newBot(api, config, deps, newTeleReplier(api)), nil
}

func newBot(api *tele.Bot, config *BotConfig, deps Dependencies, replier Replier) *Bot {
	jobs := NewJobTracker()
	return &Bot{
		api:       api,
		config:    config,
		cache:     deps.Cache,
		texts:     deps.Texts,
		jobs:      jobs,
		handler:   NewAudioHandler(deps.Cache, deps.Fetcher, deps.Transcoder, replier, deps.Texts, jobs, config.MaxDuration),
		limiter:   newChatLimiter(config.RateLimit, config.RateBurst),
		startedAt: time.Now(),
		ctx:       context.Background(),
		logger:    logger.New("BOT"),
	}
}

// StartedAt время запуска процесса
func (b *Bot) StartedAt() time.Time {
	return b.startedAt
}

// Run регистрирует обработчики и получает апдейты до отмены ctx
func (b *Bot) Run(ctx context.Context) {
	b.ctx = ctx
	b.setupMiddleware()
	b.registerHandlers()

	go func() {
		<-ctx.Done()
		b.logger.Info("Останавливаем получение апдейтов")
		b.api.Stop()
	}()

	b.logger.Info("Бот запущен в %s", b.startedAt.Format(StartedAtLayout))
	b.api.Start()
}

func (b *Bot) registerHandlers() {
	b.api.Handle(CmdStart, b.onStart)
	b.api.Handle(CmdInfo, b.onInfo)
	b.api.Handle(CmdCacheStats, b.adminOnly(b.onCacheStats))
	b.api.Handle(CmdCacheClean, b.adminOnly(b.onCacheClean))
	b.api.Handle(CmdActive, b.adminOnly(b.onActive))
	b.api.Handle(tele.OnText, b.onText)
}
