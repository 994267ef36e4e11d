package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

// teleReplier отправляет ответы через Telegram Bot API
type teleReplier struct {
	api    *tele.Bot
	logger *logger.Logger
}

func newTeleReplier(api *tele.Bot) *teleReplier {
	return &teleReplier{api: api, logger: logger.New("SEND")}
}

func (r *teleReplier) SendText(chatID int64, text string) error {
	_, err := r.api.Send(tele.ChatID(chatID), text)
	return err
}

func (r *teleReplier) SendAudio(chatID int64, a Audio) error {
	chat := tele.ChatID(chatID)
	if err := r.api.Notify(chat, tele.UploadingAudio); err != nil {
		r.logger.Debug("Не удалось отправить chat action: %v", err)
	}

	audio := &tele.Audio{
		File:      tele.FromDisk(a.Path),
		Title:     a.Title,
		Performer: a.Performer,
		Caption:   a.Caption,
		FileName:  a.FileName,
		MIME:      "audio/mpeg",
		Duration:  int(a.Duration.Seconds()),
	}
	_, err := r.api.Send(chat, audio)
	return err
}
