package bot

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/us3rdie/yt-to-mp3/internal/downloader"
	"github.com/us3rdie/yt-to-mp3/internal/storage"
)

// ErrMissingToken не задан токен Telegram
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN (или API_TOKEN) не установлен в переменных окружения")

// BotConfig содержит конфигурацию бота
type BotConfig struct {
	Token          string
	AdminID        string
	TelegramAPIURL string
	HTTPTimeout    time.Duration

	CacheDir      string
	Retention     time.Duration
	SweepInterval time.Duration
	SweepOnStart  bool

	MaxDuration  time.Duration
	FFmpegPath   string
	AudioBitrate string

	RateLimit int
	RateBurst int

	LogLevel string
	LogFile  string
}

// BindConfig задает значения по умолчанию и переменные окружения
func BindConfig(v *viper.Viper) {
	v.SetDefault("cache_dir", "./cache")
	v.SetDefault("retention", storage.DefaultRetention)
	v.SetDefault("sweep_interval", storage.DefaultRetention)
	v.SetDefault("sweep_on_start", true)
	v.SetDefault("max_duration", downloader.DefaultMaxDuration)
	v.SetDefault("ffmpeg_path", downloader.DefaultFFmpegPath)
	v.SetDefault("audio_bitrate", downloader.DefaultBitrate)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("rate_limit", DefaultRateLimit)
	v.SetDefault("rate_burst", DefaultRateBurst)
	v.SetDefault("log_level", "info")

	_ = v.BindEnv("token", "TELEGRAM_BOT_TOKEN", "API_TOKEN")
	_ = v.BindEnv("admin_id", "ADMIN_ID")
	_ = v.BindEnv("telegram_api_url", "TELEGRAM_API_URL")
	_ = v.BindEnv("http_timeout", "HTTP_TIMEOUT")
	_ = v.BindEnv("cache_dir", "CACHE_DIR")
	_ = v.BindEnv("retention", "CACHE_RETENTION")
	_ = v.BindEnv("sweep_interval", "SWEEP_INTERVAL")
	_ = v.BindEnv("sweep_on_start", "SWEEP_ON_START")
	_ = v.BindEnv("max_duration", "MAX_DURATION")
	_ = v.BindEnv("ffmpeg_path", "FFMPEG_PATH")
	_ = v.BindEnv("audio_bitrate", "AUDIO_BITRATE")
	_ = v.BindEnv("rate_limit", "RATE_LIMIT_PER_MINUTE")
	_ = v.BindEnv("rate_burst", "RATE_LIMIT_BURST")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")
}

// NewBotConfig создает конфигурацию бота из viper
func NewBotConfig(v *viper.Viper) (*BotConfig, error) {
	config := &BotConfig{
		Token:          strings.TrimSpace(v.GetString("token")),
		AdminID:        strings.TrimSpace(v.GetString("admin_id")),
		TelegramAPIURL: strings.TrimSpace(v.GetString("telegram_api_url")),
		HTTPTimeout:    v.GetDuration("http_timeout"),
		CacheDir:       strings.TrimSpace(v.GetString("cache_dir")),
		Retention:      v.GetDuration("retention"),
		SweepInterval:  v.GetDuration("sweep_interval"),
		SweepOnStart:   v.GetBool("sweep_on_start"),
		MaxDuration:    v.GetDuration("max_duration"),
		FFmpegPath:     v.GetString("ffmpeg_path"),
		AudioBitrate:   v.GetString("audio_bitrate"),
		RateLimit:      v.GetInt("rate_limit"),
		RateBurst:      v.GetInt("rate_burst"),
		LogLevel:       v.GetString("log_level"),
		LogFile:        v.GetString("log_file"),
	}

	if config.TelegramAPIURL == "" {
		config.TelegramAPIURL = defaultTelegramAPIURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate проверяет конфигурацию
func (c *BotConfig) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.CacheDir == "" {
		return errors.New("не задана папка кэша (CACHE_DIR)")
	}
	if c.Retention <= 0 {
		return errors.Errorf("срок хранения кэша должен быть положительным, получено %v", c.Retention)
	}
	if c.SweepInterval <= 0 {
		return errors.Errorf("интервал очистки должен быть положительным, получено %v", c.SweepInterval)
	}
	if c.MaxDuration <= 0 {
		return errors.Errorf("максимальная длительность должна быть положительной, получено %v", c.MaxDuration)
	}
	if c.HTTPTimeout <= 0 {
		return errors.Errorf("таймаут HTTP должен быть положительным, получено %v", c.HTTPTimeout)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return errors.New("лимит сообщений не может быть отрицательным")
	}
	if c.AdminID != "" {
		if _, err := strconv.ParseInt(c.AdminID, 10, 64); err != nil {
			return errors.Wrapf(err, "некорректный ADMIN_ID %q", c.AdminID)
		}
	}
	return nil
}

// IsAdmin проверяет, является ли пользователь администратором
func (c *BotConfig) IsAdmin(userID int64) bool {
	return c.AdminID != "" && c.AdminID == strconv.FormatInt(userID, 10)
}
