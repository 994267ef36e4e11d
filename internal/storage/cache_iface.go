package storage

import (
	"io"
	"time"
)

// WriteFunc записывает содержимое артефакта. Ошибка отменяет сохранение.
type WriteFunc func(w io.Writer) error

// AudioCache кэш аудиофайлов по идентификатору видео
type AudioCache interface {
	Exists(id string) bool
	Path(id string) string
	Store(id string, meta Metadata, write WriteFunc) (string, error)
	Metadata(id string) (*Metadata, error)
	EvictOlderThan(maxAge time.Duration) (SweepResult, error)
	Stats() (Stats, error)
}
