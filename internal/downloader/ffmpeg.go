package downloader

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

const (
	// DefaultFFmpegPath бинарь ffmpeg по умолчанию
	DefaultFFmpegPath = "ffmpeg"
	// DefaultBitrate битрейт mp3 по умолчанию
	DefaultBitrate = "192k"
)

// FFmpeg перекодирует поток в mp3: stdin -> ffmpeg -> stdout
type FFmpeg struct {
	binary  string
	bitrate string
	logger  *logger.Logger
}

// NewFFmpeg создает перекодировщик
func NewFFmpeg(binary, bitrate string) *FFmpeg {
	if binary == "" {
		binary = DefaultFFmpegPath
	}
	if bitrate == "" {
		bitrate = DefaultBitrate
	}
	return &FFmpeg{
		binary:  binary,
		bitrate: bitrate,
		logger:  logger.New("FFMPEG"),
	}
}

func (f *FFmpeg) args() []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vn",
		"-codec:a", "libmp3lame",
		"-b:a", f.bitrate,
		"-f", "mp3",
		"pipe:1",
	}
}

// Transcode читает src и пишет mp3 в dst
func (f *FFmpeg) Transcode(ctx context.Context, src io.Reader, dst io.Writer) error {
	cmd := exec.CommandContext(ctx, f.binary, f.args()...)
	cmd.Stdin = src
	cmd.Stdout = dst
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		reason := strings.TrimSpace(stderr.String())
		if reason == "" {
			reason = err.Error()
		}
		if i := strings.LastIndex(reason, "\n"); i >= 0 {
			reason = strings.TrimSpace(reason[i+1:])
		}
		f.logger.Error("ffmpeg завершился с ошибкой: %v, stderr: %s", err, stderr.String())
		return &TranscodeError{Reason: "transcoding failed: " + reason, Err: err}
	}
	return nil
}
