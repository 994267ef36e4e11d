package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/us3rdie/yt-to-mp3/internal/utils"
)

// adminOnly пропускает команду только для ADMIN_ID
func (b *Bot) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Sender() == nil || !b.config.IsAdmin(c.Sender().ID) {
			b.logger.Warning("Админская команда %q от пользователя без прав", c.Text())
			return c.Send(b.texts.T(languageOf(c), "admin_only"))
		}
		return next(c)
	}
}

// Функция для отправки статистики кэша
func (b *Bot) onCacheStats(c tele.Context) error {
	return c.Send(b.cacheStatsText(languageOf(c), time.Now()))
}

func (b *Bot) cacheStatsText(lang string, now time.Time) string {
	stats, err := b.cache.Stats()
	if err != nil {
		b.logger.Error("Ошибка получения статистики кэша: %v", err)
		return b.texts.T(lang, "error", err.Error())
	}
	if stats.Entries == 0 {
		return b.texts.T(lang, "cache_empty")
	}
	return b.texts.T(lang, "cache_stats",
		stats.Entries, utils.FormatBytes(stats.TotalBytes), utils.FormatAge(now.Sub(stats.OldestEntry)))
}

// Функция для очистки старого кэша
func (b *Bot) onCacheClean(c tele.Context) error {
	return c.Send(b.cacheCleanText(languageOf(c), c.Message().Payload))
}

func (b *Bot) cacheCleanText(lang, payload string) string {
	parts := strings.Fields(payload)
	if len(parts) < 1 {
		return b.texts.T(lang, "cache_clean_usage")
	}

	days, err := strconv.Atoi(parts[0])
	if err != nil || days <= 0 {
		return b.texts.T(lang, "cache_clean_invalid")
	}

	result, err := b.cache.EvictOlderThan(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		b.logger.Error("Ошибка очистки кэша: %v", err)
		return b.texts.T(lang, "error", err.Error())
	}
	b.logger.Info("Ручная очистка кэша: удалено %d файлов старше %d дней", result.Removed, days)
	return b.texts.T(lang, "cache_cleaned", result.Removed, days, utils.FormatBytes(result.FreedBytes))
}

// Функция для отправки информации об активных конвертациях
func (b *Bot) onActive(c tele.Context) error {
	return c.Send(b.activeText(languageOf(c), time.Now()))
}

func (b *Bot) activeText(lang string, now time.Time) string {
	jobs := b.jobs.Active()
	if len(jobs) == 0 {
		return b.texts.T(lang, "no_active")
	}

	var info strings.Builder
	info.WriteString(b.texts.T(lang, "active_header", len(jobs)))
	info.WriteString("\n\n")
	for i, job := range jobs {
		if i == maxActiveJobsInListing {
			info.WriteString(fmt.Sprintf("... +%d\n", len(jobs)-i))
			break
		}
		info.WriteString(fmt.Sprintf("🔗 %s | 👤 %d | 🆔 %s | ⏱️ %s\n",
			job.VideoID, job.ChatID, job.RequestID, utils.FormatDuration(now.Sub(job.StartTime))))
	}
	return info.String()
}
