package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// EnsureWritableDir создает папку при необходимости и проверяет права на запись
func EnsureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "не удалось создать папку %s", dir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "не удалось проверить папку %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("%s не является папкой", dir)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return errors.Wrapf(err, "нет прав на запись в %s", dir)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return errors.Wrapf(err, "не удалось удалить тестовый файл %s", filepath.Base(name))
	}
	return nil
}
