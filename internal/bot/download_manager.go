package bot

import (
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

// Job информация об активной конвертации
type Job struct {
	RequestID string
	VideoID   string
	ChatID    int64
	StartTime time.Time
}

// JobTracker хранит список активных конвертаций. Скачивания не блокирует.
type JobTracker struct {
	mutex  sync.RWMutex
	active map[string]*Job
	logger *logger.Logger
}

// NewJobTracker создает трекер конвертаций
func NewJobTracker() *JobTracker {
	return &JobTracker{
		active: make(map[string]*Job),
		logger: logger.New("DOWNLOAD"),
	}
}

// GenerateRequestID генерирует уникальный ID для запроса
func GenerateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", b)
}

// Begin регистрирует начало конвертации
func (t *JobTracker) Begin(videoID string, chatID int64) *Job {
	job := &Job{
		RequestID: GenerateRequestID(),
		VideoID:   videoID,
		ChatID:    chatID,
		StartTime: time.Now(),
	}

	t.mutex.Lock()
	t.active[job.RequestID] = job
	t.mutex.Unlock()

	t.logger.Info("[%s] Начата конвертация %s для чата %d", job.RequestID, videoID, chatID)
	return job
}

// Finish регистрирует завершение конвертации
func (t *JobTracker) Finish(job *Job, err error) {
	t.mutex.Lock()
	delete(t.active, job.RequestID)
	t.mutex.Unlock()

	if err != nil {
		t.logger.Info("[%s] Конвертация %s завершилась с ошибкой: %v", job.RequestID, job.VideoID, err)
		return
	}
	t.logger.Info("[%s] Конвертация %s завершена за %v", job.RequestID, job.VideoID, time.Since(job.StartTime).Round(time.Millisecond))
}

// Active возвращает копию активных конвертаций, старые первыми
func (t *JobTracker) Active() []Job {
	t.mutex.RLock()
	jobs := make([]Job, 0, len(t.active))
	for _, job := range t.active {
		jobs = append(jobs, *job)
	}
	t.mutex.RUnlock()

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].StartTime.Before(jobs[j].StartTime)
	})
	return jobs
}

// Count возвращает количество активных конвертаций
func (t *JobTracker) Count() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.active)
}
