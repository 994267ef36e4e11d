package downloader

import (
	"context"
	"io"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"

	"github.com/us3rdie/yt-to-mp3/internal/link"
	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

// YouTube получает видео через github.com/kkdai/youtube
type YouTube struct {
	client *youtube.Client
	logger *logger.Logger
}

// NewYouTube создает клиент YouTube
func NewYouTube(client *youtube.Client) *YouTube {
	if client == nil {
		client = &youtube.Client{}
	}
	return &YouTube{
		client: client,
		logger: logger.New("YOUTUBE"),
	}
}

// Metadata получает название и длительность видео без скачивания потока
func (y *YouTube) Metadata(ctx context.Context, id string) (*VideoInfo, error) {
	y.logger.Debug("Получаем метаданные для %s", id)

	video, err := y.client.GetVideoContext(ctx, link.CanonicalURL(id))
	if err != nil {
		return nil, &FetchError{Reason: err.Error(), Err: err}
	}
	return infoFromVideo(id, video), nil
}

// Open открывает аудиопоток с наибольшим битрейтом
func (y *YouTube) Open(ctx context.Context, info *VideoInfo) (io.ReadCloser, error) {
	video, ok := info.source.(*youtube.Video)
	if !ok || video == nil {
		var err error
		video, err = y.client.GetVideoContext(ctx, link.CanonicalURL(info.ID))
		if err != nil {
			return nil, &FetchError{Reason: err.Error(), Err: err}
		}
	}

	format, err := pickAudioFormat(video.Formats)
	if err != nil {
		return nil, &FetchError{Reason: err.Error(), Err: err}
	}
	y.logger.Info("Выбран формат itag=%d (%s, %d bps) для %s", format.ItagNo, format.MimeType, format.Bitrate, info.ID)

	stream, _, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, &FetchError{Reason: err.Error(), Err: errors.Wrap(err, "ошибка открытия потока")}
	}
	return stream, nil
}

func infoFromVideo(id string, video *youtube.Video) *VideoInfo {
	title := strings.TrimSpace(video.Title)
	if title == "" {
		title = id
	}
	return &VideoInfo{
		ID:       id,
		Title:    title,
		Author:   video.Author,
		Duration: video.Duration,
		source:   video,
	}
}

// pickAudioFormat предпочитает чистое аудио, затем максимальный битрейт
func pickAudioFormat(formats youtube.FormatList) (*youtube.Format, error) {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 {
			continue
		}
		if best == nil {
			best = f
			continue
		}
		audioOnly := strings.HasPrefix(f.MimeType, "audio/")
		bestAudioOnly := strings.HasPrefix(best.MimeType, "audio/")
		if audioOnly != bestAudioOnly {
			if audioOnly {
				best = f
			}
			continue
		}
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}
	if best == nil {
		return nil, ErrNoAudioStream
	}
	return best, nil
}
