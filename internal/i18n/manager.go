package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/us3rdie/yt-to-mp3/internal/logger"
)

// FallbackLanguage язык по умолчанию
const FallbackLanguage = "en"

//go:embed locales/*.json
var localesFS embed.FS

// Manager управляет локализацией
type Manager struct {
	translations map[string]map[string]interface{}
	mutex        sync.RWMutex
	fallbackLang string
	logger       *logger.Logger
}

// NewManager создает новый менеджер локализации
func NewManager(fallbackLang string) *Manager {
	return &Manager{
		translations: make(map[string]map[string]interface{}),
		fallbackLang: fallbackLang,
		logger:       logger.New("I18N"),
	}
}

// NewDefault создает менеджер со встроенными переводами
func NewDefault() (*Manager, error) {
	m := NewManager(FallbackLanguage)
	if err := m.LoadTranslations(localesFS, "locales"); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadTranslations загружает переводы из *.json файлов каталога dir
func (m *Manager) LoadTranslations(fsys fs.FS, dir string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return errors.Wrap(err, "ошибка чтения директории переводов")
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := fs.ReadFile(fsys, path.Join(dir, file.Name()))
		if err != nil {
			return errors.Wrapf(err, "ошибка чтения файла %s", file.Name())
		}

		var translations map[string]interface{}
		if err := json.Unmarshal(data, &translations); err != nil {
			return errors.Wrapf(err, "ошибка парсинга JSON в файле %s", file.Name())
		}

		m.translations[lang] = translations
		m.logger.Debug("Загружено %d переводов для языка %s", len(translations), lang)
	}

	if _, ok := m.translations[m.fallbackLang]; !ok {
		return errors.Errorf("нет переводов для языка по умолчанию %s", m.fallbackLang)
	}
	return nil
}

// Language подбирает язык по коду из Telegram ("ru-RU" -> "ru")
func (m *Manager) Language(code string) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	lang := strings.ToLower(strings.TrimSpace(code))
	if lang == "" {
		return m.fallbackLang
	}
	if _, exists := m.translations[lang]; exists {
		return lang
	}
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		if _, exists := m.translations[lang[:idx]]; exists {
			return lang[:idx]
		}
	}
	return m.fallbackLang
}

// T возвращает переведенный текст. Массив строк склеивается через \n.
func (m *Manager) T(langCode, key string, args ...interface{}) string {
	lang := m.Language(langCode)

	m.mutex.RLock()
	textRaw, ok := m.translations[lang][key]
	if !ok {
		textRaw, ok = m.translations[m.fallbackLang][key]
	}
	m.mutex.RUnlock()

	if !ok {
		m.logger.Warning("Ключ '%s' не найден в языке %s и fallback %s", key, lang, m.fallbackLang)
		return key
	}

	var text string
	switch v := textRaw.(type) {
	case string:
		text = v
	case []interface{}:
		lines := make([]string, 0, len(v))
		for _, line := range v {
			lines = append(lines, fmt.Sprintf("%v", line))
		}
		text = strings.Join(lines, "\n")
	default:
		m.logger.Warning("Некорректный тип перевода для ключа %s", key)
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// GetAvailableLanguages возвращает список доступных языков
func (m *Manager) GetAvailableLanguages() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	languages := make([]string, 0, len(m.translations))
	for lang := range m.translations {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	return languages
}
