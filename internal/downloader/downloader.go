// Package downloader получает метаданные и аудиопоток видео и перекодирует его в mp3.
package downloader

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
)

// DefaultMaxDuration максимальная длительность видео для скачивания
const DefaultMaxDuration = 3 * time.Hour

var (
	// ErrUnavailable видео нельзя получить (приватное, удалено, ошибка клиента)
	ErrUnavailable = errors.New("видео недоступно")
	// ErrNoAudioStream у видео нет подходящей аудиодорожки
	ErrNoAudioStream = errors.New("no audio stream available")
	// ErrTranscode ошибка перекодирования
	ErrTranscode = errors.New("ошибка перекодирования")
)

// VideoInfo метаданные видео
type VideoInfo struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration

	source interface{}
}

// Fetcher получает метаданные и аудиопоток видео
type Fetcher interface {
	Metadata(ctx context.Context, id string) (*VideoInfo, error)
	Open(ctx context.Context, info *VideoInfo) (io.ReadCloser, error)
}

// Transcoder перекодирует аудиопоток в формат кэша
type Transcoder interface {
	Transcode(ctx context.Context, src io.Reader, dst io.Writer) error
}

// FetchError ошибка получения видео с причиной для пользователя
type FetchError struct {
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	return e.Reason
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать с ErrUnavailable
func (e *FetchError) Is(target error) bool {
	return target == ErrUnavailable
}

// TranscodeError ошибка ffmpeg с причиной для пользователя
type TranscodeError struct {
	Reason string
	Err    error
}

func (e *TranscodeError) Error() string {
	return e.Reason
}

func (e *TranscodeError) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать с ErrTranscode
func (e *TranscodeError) Is(target error) bool {
	return target == ErrTranscode
}

// TooLongError видео длиннее допустимого
type TooLongError struct {
	Duration time.Duration
	Limit    time.Duration
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("видео слишком длинное: %v (максимум %v)", e.Duration, e.Limit)
}

// CheckDuration возвращает TooLongError, если длительность достигает лимита
func CheckDuration(d, limit time.Duration) error {
	if limit > 0 && d >= limit {
		return &TooLongError{Duration: d, Limit: limit}
	}
	return nil
}

// Reason возвращает текст причины ошибки для пользователя
func Reason(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Reason
	}
	var te *TranscodeError
	if errors.As(err, &te) {
		return te.Reason
	}
	return errors.Cause(err).Error()
}
