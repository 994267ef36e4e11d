// Package link распознает ссылки на YouTube в произвольном тексте сообщения.
package link

import (
	"regexp"
)

// IDLength длина идентификатора видео YouTube
const IDLength = 11

// Ссылка должна начинаться в начале текста или после пробельного символа,
// а за идентификатором не должно идти еще одного символа из его алфавита.
var youtubeLinkRegex = regexp.MustCompile(
	`(?:^|\s)(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`,
)

var idRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Link результат распознавания ссылки
type Link struct {
	ID  string
	URL string
}

// Extract ищет первую поддерживаемую ссылку в тексте.
// Второе значение false означает, что ссылки нет и сообщение нужно молча проигнорировать.
func Extract(text string) (Link, bool) {
	m := youtubeLinkRegex.FindStringSubmatch(text)
	if m == nil {
		return Link{}, false
	}
	return Link{ID: m[1], URL: CanonicalURL(m[1])}, true
}

// ValidID проверяет формат идентификатора видео
func ValidID(id string) bool {
	return idRegex.MatchString(id)
}

// CanonicalURL возвращает нормализованную ссылку на видео
func CanonicalURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
