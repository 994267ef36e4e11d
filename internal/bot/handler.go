package bot

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/us3rdie/yt-to-mp3/internal/downloader"
	"github.com/us3rdie/yt-to-mp3/internal/i18n"
	"github.com/us3rdie/yt-to-mp3/internal/link"
	"github.com/us3rdie/yt-to-mp3/internal/logger"
	"github.com/us3rdie/yt-to-mp3/internal/storage"
	"github.com/us3rdie/yt-to-mp3/internal/utils"
)

// Outcome итог обработки одного сообщения
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeCacheHit
	OutcomeStored
	OutcomeTooLong
	OutcomeFetchFailed
	OutcomeTranscodeFailed
	OutcomeStoreFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeCacheHit:
		return "cache_hit"
	case OutcomeStored:
		return "stored"
	case OutcomeTooLong:
		return "too_long"
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeTranscodeFailed:
		return "transcode_failed"
	case OutcomeStoreFailed:
		return "store_failed"
	}
	return "unknown"
}

// AudioHandler обрабатывает сообщения со ссылками:
// ссылка -> кэш -> (метаданные, поток, ffmpeg, сохранение) -> ответ аудиофайлом
type AudioHandler struct {
	cache       storage.AudioCache
	fetcher     downloader.Fetcher
	transcoder  downloader.Transcoder
	replier     Replier
	texts       *i18n.Manager
	jobs        *JobTracker
	maxDuration time.Duration
	logger      *logger.Logger
}

// NewAudioHandler создает обработчик сообщений
func NewAudioHandler(cache storage.AudioCache, fetcher downloader.Fetcher, transcoder downloader.Transcoder,
	replier Replier, texts *i18n.Manager, jobs *JobTracker, maxDuration time.Duration) *AudioHandler {
	if jobs == nil {
		jobs = NewJobTracker()
	}
	return &AudioHandler{
		cache:       cache,
		fetcher:     fetcher,
		transcoder:  transcoder,
		replier:     replier,
		texts:       texts,
		jobs:        jobs,
		maxDuration: maxDuration,
		logger:      logger.New("MESSAGE"),
	}
}

// Handle обрабатывает одно сообщение. Ошибка возвращается только если не удалось ответить.
func (h *AudioHandler) Handle(ctx context.Context, msg IncomingMessage) (Outcome, error) {
	l, ok := link.Extract(msg.Text)
	if !ok {
		h.logger.Debug("Ссылка на YouTube не найдена в сообщении: %q", msg.Text)
		return OutcomeIgnored, nil
	}

	if h.cache.Exists(l.ID) {
		h.logger.Info("[User %d] Видео '%s' есть в кэше, отправляем...", msg.ChatID, l.ID)
		return OutcomeCacheHit, h.replyFromCache(ctx, msg, l.ID)
	}

	h.logger.Info("[User %d] Скачиваем видео %s", msg.ChatID, l.URL)
	return h.fetchAndStore(ctx, msg, l.ID)
}

func (h *AudioHandler) replyFromCache(ctx context.Context, msg IncomingMessage, id string) error {
	audio := Audio{
		Path:     h.cache.Path(id),
		Title:    id,
		Caption:  h.texts.T(msg.LanguageCode, "from_cache"),
		FileName: id + storage.AudioExt,
	}

	meta, err := h.cache.Metadata(id)
	switch {
	case err != nil:
		h.logger.Debug("Нет сохраненных метаданных для %s: %v", id, err)
	case meta.Title == "":
		h.logger.Debug("В сохраненных метаданных для %s нет названия", id)
	}

	if err == nil && meta.Title != "" {
		audio.Title = meta.Title
		audio.Performer = meta.Author
		audio.Duration = time.Duration(meta.DurationSeconds) * time.Second
	} else {
		info, err := h.fetcher.Metadata(ctx, id)
		if err != nil {
			h.logger.Warning("Не удалось получить название для %s, подпись по id: %v", id, err)
		} else {
			audio.Title = info.Title
			audio.Performer = info.Author
			audio.Duration = info.Duration
		}
	}

	return h.replier.SendAudio(msg.ChatID, audio)
}

func (h *AudioHandler) fetchAndStore(ctx context.Context, msg IncomingMessage, id string) (outcome Outcome, err error) {
	startTime := time.Now()
	job := h.jobs.Begin(id, msg.ChatID)
	log := h.logger.WithField("request_id", job.RequestID)
	var jobErr error
	defer func() { h.jobs.Finish(job, jobErr) }()

	info, err := h.fetcher.Metadata(ctx, id)
	if err != nil {
		jobErr = err
		log.LogErrorWithContext("Ошибка получения метаданных", err, id)
		return OutcomeFetchFailed, h.replyError(msg, err)
	}

	if err := downloader.CheckDuration(info.Duration, h.maxDuration); err != nil {
		jobErr = err
		log.Warning("[User %d] %v", msg.ChatID, err)
		return OutcomeTooLong, h.replier.SendText(msg.ChatID,
			h.texts.T(msg.LanguageCode, "too_long", utils.FormatDuration(h.maxDuration)))
	}

	if err := h.replier.SendText(msg.ChatID, h.texts.T(msg.LanguageCode, "downloading")); err != nil {
		log.Warning("Не удалось отправить уведомление о скачивании: %v", err)
	}

	stream, err := h.fetcher.Open(ctx, info)
	if err != nil {
		jobErr = err
		log.LogErrorWithContext("Ошибка открытия аудиопотока", err, id)
		return OutcomeFetchFailed, h.replyError(msg, err)
	}
	defer stream.Close()

	meta := storage.Metadata{
		Title:           info.Title,
		Author:          info.Author,
		DurationSeconds: int(info.Duration / time.Second),
	}
	path, err := h.cache.Store(id, meta, func(w io.Writer) error {
		return h.transcoder.Transcode(ctx, stream, w)
	})
	if err != nil {
		jobErr = err
		outcome = OutcomeStoreFailed
		if errors.Is(err, downloader.ErrTranscode) {
			outcome = OutcomeTranscodeFailed
		}
		log.LogErrorWithContext("Ошибка конвертации", err, id)
		return outcome, h.replyError(msg, err)
	}
	log.Info("[User %d] '%s' успешно скачано!", msg.ChatID, info.Title)

	err = h.replier.SendAudio(msg.ChatID, Audio{
		Path:      path,
		Title:     info.Title,
		Performer: info.Author,
		FileName:  id + storage.AudioExt,
		Duration:  info.Duration,
	})
	if err != nil {
		jobErr = err
		return OutcomeStored, errors.Wrap(err, "ошибка отправки аудио")
	}
	log.LogPerformance("Скачивание и отправка аудио", startTime)
	return OutcomeStored, nil
}

func (h *AudioHandler) replyError(msg IncomingMessage, cause error) error {
	return h.replier.SendText(msg.ChatID, h.texts.T(msg.LanguageCode, "error", downloader.Reason(cause)))
}
