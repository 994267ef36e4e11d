package bot

import (
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/us3rdie/yt-to-mp3/internal/utils"
)

func languageOf(c tele.Context) string {
	if sender := c.Sender(); sender != nil {
		return sender.LanguageCode
	}
	return ""
}

// onStart отвечает на /start описанием возможностей
func (b *Bot) onStart(c tele.Context) error {
	return c.Send(b.startText(languageOf(c)))
}

// onInfo отвечает на /info временем запуска бота
func (b *Bot) onInfo(c tele.Context) error {
	return c.Send(b.infoText(languageOf(c), time.Now()))
}

func (b *Bot) startText(lang string) string {
	return b.texts.T(lang, "start")
}

func (b *Bot) infoText(lang string, now time.Time) string {
	return b.texts.T(lang, "info", b.startedAt.Format(StartedAtLayout)) + "\n" +
		b.texts.T(lang, "info_details", utils.FormatDuration(now.Sub(b.startedAt)), b.jobs.Count())
}

// onText обрабатывает все текстовые сообщения, кроме команд
func (b *Bot) onText(c tele.Context) error {
	msg := c.Message()
	if msg == nil || c.Chat() == nil {
		return nil
	}

	in := IncomingMessage{
		ChatID:       c.Chat().ID,
		Text:         msg.Text,
		LanguageCode: languageOf(c),
		ReceivedAt:   msg.Time(),
	}
	if sender := c.Sender(); sender != nil {
		in.SenderID = sender.ID
	}

	outcome, err := b.handler.Handle(b.ctx, in)
	b.logger.Debug("Сообщение из чата %d обработано: %s", in.ChatID, outcome)
	return err
}
