package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/us3rdie/yt-to-mp3/internal/link"
	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

const (
	// AudioExt расширение кэшированных аудиофайлов
	AudioExt = ".mp3"
	// MetaExt расширение файла с метаданными рядом с аудио
	MetaExt = ".json"

	partSuffix = ".part"
)

// ErrInvalidID некорректный идентификатор видео
var ErrInvalidID = errors.New("некорректный идентификатор видео")

// Metadata метаданные, сохраняемые рядом с аудиофайлом
type Metadata struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author,omitempty"`
	DurationSeconds int       `json:"duration_seconds"`
	StoredAt        time.Time `json:"stored_at"`
}

// Stats статистика кэша
type Stats struct {
	Entries     int
	TotalBytes  int64
	OldestEntry time.Time
}

// FileCache кэш в плоской папке: {id}.mp3 и {id}.json
type FileCache struct {
	dir    string
	now    func() time.Time
	logger *logger.Logger
}

// NewFileCache создает кэш и проверяет, что в папку можно писать
func NewFileCache(dir string) (*FileCache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("не задана папка кэша")
	}
	if err := EnsureWritableDir(dir); err != nil {
		return nil, err
	}
	return &FileCache{
		dir:    dir,
		now:    time.Now,
		logger: logger.New("CACHE"),
	}, nil
}

// Dir возвращает папку кэша
func (c *FileCache) Dir() string {
	return c.dir
}

// Path возвращает путь к аудиофайлу для id. Не обращается к диску.
func (c *FileCache) Path(id string) string {
	return filepath.Join(c.dir, id+AudioExt)
}

func (c *FileCache) metaPath(id string) string {
	return filepath.Join(c.dir, id+MetaExt)
}

// Exists проверяет наличие аудиофайла для id
func (c *FileCache) Exists(id string) bool {
	if !link.ValidID(id) {
		return false
	}
	info, err := os.Stat(c.Path(id))
	return err == nil && info.Mode().IsRegular()
}

// Store сохраняет артефакт: write пишет во временный файл, который потом
// переименовывается в {id}.mp3. Пока rename не выполнен, Exists возвращает false.
func (c *FileCache) Store(id string, meta Metadata, write WriteFunc) (string, error) {
	if !link.ValidID(id) {
		return "", errors.Wrapf(ErrInvalidID, "id %q", id)
	}

	path := c.Path(id)
	if err := writeAtomic(c.dir, id, path, write); err != nil {
		return "", err
	}
	c.logger.Info("Сохранен аудиофайл %s", path)

	meta.ID = id
	if meta.StoredAt.IsZero() {
		meta.StoredAt = c.now()
	}
	err := writeAtomic(c.dir, id, c.metaPath(id), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		// Аудио уже на месте, без метаданных подпись возьмем из другого источника
		c.logger.Warning("Не удалось сохранить метаданные для %s: %v", id, err)
	}

	return path, nil
}

// Metadata читает метаданные для id
func (c *FileCache) Metadata(id string) (*Metadata, error) {
	if !link.ValidID(id) {
		return nil, errors.Wrapf(ErrInvalidID, "id %q", id)
	}
	data, err := os.ReadFile(c.metaPath(id))
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения метаданных")
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrap(err, "ошибка разбора метаданных")
	}
	return &meta, nil
}

// EvictOlderThan удаляет записи старше maxAge
func (c *FileCache) EvictOlderThan(maxAge time.Duration) (SweepResult, error) {
	return Evict(c.dir, maxAge, c.now())
}

// Stats возвращает количество и общий размер аудиофайлов
func (c *FileCache) Stats() (Stats, error) {
	var stats Stats
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return stats, errors.Wrap(err, "ошибка чтения папки кэша")
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), AudioExt) || !IsCacheFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
		if stats.OldestEntry.IsZero() || info.ModTime().Before(stats.OldestEntry) {
			stats.OldestEntry = info.ModTime()
		}
	}
	return stats, nil
}

func writeAtomic(dir, id, dst string, write WriteFunc) (err error) {
	tmp, err := os.CreateTemp(dir, "."+id+".*"+partSuffix)
	if err != nil {
		return errors.Wrap(err, "не удалось создать временный файл")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		return errors.Wrap(err, "ошибка записи артефакта")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "ошибка синхронизации временного файла")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "ошибка закрытия временного файла")
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "ошибка установки прав")
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return errors.Wrap(err, "ошибка переименования временного файла")
	}
	return nil
}
