package storage

import (
	"context"
	"time"

	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

// Sweeper выполняет один проход очистки
type Sweeper interface {
	EvictOlderThan(maxAge time.Duration) (SweepResult, error)
}

// Scheduler периодически запускает очистку кэша
type Scheduler struct {
	sweeper      Sweeper
	interval     time.Duration
	maxAge       time.Duration
	sweepOnStart bool
	logger       *logger.Logger
}

// NewScheduler создает планировщик очистки
func NewScheduler(sweeper Sweeper, interval, maxAge time.Duration, sweepOnStart bool) *Scheduler {
	if interval <= 0 {
		interval = DefaultRetention
	}
	if maxAge <= 0 {
		maxAge = DefaultRetention
	}
	return &Scheduler{
		sweeper:      sweeper,
		interval:     interval,
		maxAge:       maxAge,
		sweepOnStart: sweepOnStart,
		logger:       logger.New("SCHEDULER"),
	}
}

// Run блокируется до отмены ctx
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Запуск очистки кэша: интервал %v, срок хранения %v", s.interval, s.maxAge)

	if s.sweepOnStart {
		s.sweep()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Очистка кэша остановлена")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Scheduler) sweep() {
	start := time.Now()
	result, err := s.sweeper.EvictOlderThan(s.maxAge)
	if err != nil {
		s.logger.Error("Ошибка очистки кэша: %v", err)
		return
	}
	if result.Removed > 0 {
		s.logger.Info("Удалено %d файлов", result.Removed)
	}
	s.logger.LogPerformance("Очистка кэша", start)
}
