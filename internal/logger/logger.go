package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Options настройки общего логгера процесса
type Options struct {
	Level string
	File  string
	// Output по умолчанию os.Stdout
	Output io.Writer
}

// Setup настраивает уровень и вывод логов. Если задан файл, пишем в stdout и в ротируемый файл.
func Setup(opts Options) error {
	level := logrus.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := logrus.ParseLevel(s)
		if err != nil {
			return errors.Wrapf(err, "некорректный уровень логирования %q", s)
		}
		level = parsed
	}
	base.SetLevel(level)

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.File == "" {
		base.SetOutput(out)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return errors.Wrap(err, "не удалось создать папку для логов")
	}
	logFile := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	base.SetOutput(io.MultiWriter(out, logFile))
	return nil
}

// SetOutput переключает вывод (используется в тестах)
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// Logger предоставляет структурированное логирование с префиксом компонента
type Logger struct {
	prefix string
	entry  *logrus.Entry
}

// New создает новый логгер с префиксом
func New(prefix string) *Logger {
	return &Logger{
		prefix: prefix,
		entry:  base.WithField("component", prefix),
	}
}

// WithField возвращает логгер с дополнительным полем
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{prefix: l.prefix, entry: l.entry.WithField(key, value)}
}

// Info логирует информационное сообщение
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Info(fmt.Sprintf("[%s] %s", l.prefix, fmt.Sprintf(format, args...)))
}

// Error логирует ошибку
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Error(fmt.Sprintf("[%s] %s", l.prefix, fmt.Sprintf(format, args...)))
}

// Debug логирует отладочное сообщение
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debug(fmt.Sprintf("[%s] %s", l.prefix, fmt.Sprintf(format, args...)))
}

// Warning логирует предупреждение
func (l *Logger) Warning(format string, args ...interface{}) {
	l.entry.Warn(fmt.Sprintf("[%s] %s", l.prefix, fmt.Sprintf(format, args...)))
}

// LogErrorWithContext логирует ошибку с контекстом
func (l *Logger) LogErrorWithContext(context string, err error, extraInfo ...string) {
	info := ""
	if len(extraInfo) > 0 && extraInfo[0] != "" {
		info = fmt.Sprintf(" [%s]", extraInfo[0])
	}
	l.Error("%s%s: %v", context, info, err)
}

// LogPerformance логирует производительность операции
func (l *Logger) LogPerformance(operation string, startTime time.Time) {
	l.Info("Performance: %s took %v", operation, time.Since(startTime).Round(time.Millisecond))
}
