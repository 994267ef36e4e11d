package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pkg/errors"

	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

// DefaultRetention срок хранения записей в кэше
const DefaultRetention = 7 * 24 * time.Hour

// ErrInvalidRetention срок хранения должен быть положительным
var ErrInvalidRetention = errors.New("срок хранения должен быть положительным")

// Файлы кэша: {id}.mp3, {id}.json и временные .{id}.*.part
var cacheFilePattern = regexp.MustCompile(`^(?:[A-Za-z0-9_-]{11}\.(?:mp3|json)|\.[A-Za-z0-9_-]{11}\..+\.part)$`)

// IsCacheFile проверяет, что имя файла принадлежит кэшу
func IsCacheFile(name string) bool {
	return cacheFilePattern.MatchString(name)
}

// SweepResult итог одного прохода очистки
type SweepResult struct {
	Scanned    int
	Removed    int
	Failed     int
	FreedBytes int64
}

// Evict удаляет из dir файлы кэша, у которых now - mtime больше maxAge.
// Остальные файлы не трогает. Ошибки по отдельным файлам логируются и пропускаются.
func Evict(dir string, maxAge time.Duration, now time.Time) (SweepResult, error) {
	log := logger.New("EVICT")
	var result SweepResult
	if maxAge <= 0 {
		return result, errors.Wrapf(ErrInvalidRetention, "получено %v", maxAge)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, errors.Wrapf(err, "ошибка чтения папки кэша %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || !IsCacheFile(entry.Name()) {
			continue
		}
		result.Scanned++

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Failed++
			log.Error("Не удалось получить информацию о файле %s: %v", path, err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}

		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			result.Failed++
			log.Error("Не удалось удалить файл %s: %v", path, err)
			continue
		}
		result.Removed++
		result.FreedBytes += info.Size()
		log.Debug("Удален устаревший файл %s (возраст %v)", path, now.Sub(info.ModTime()).Round(time.Second))
	}

	log.Info("Очистка %s: просмотрено %d, удалено %d, ошибок %d", dir, result.Scanned, result.Removed, result.Failed)
	return result, nil
}
