// Package cmd содержит команды запуска бота.
package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/us3rdie/yt-to-mp3/internal/bot"
	"github.com/us3rdie/yt-to-mp3/internal/downloader"
	"github.com/us3rdie/yt-to-mp3/internal/i18n"
	"github.com/us3rdie/yt-to-mp3/internal/logger"
	"github.com/us3rdie/yt-to-mp3/internal/storage"
)

var (
	v = viper.New()

	logOutput io.Writer = os.Stdout
)

// rootCmd запускает бота
var rootCmd = &cobra.Command{
	Use:   "yt-to-mp3",
	Short: "Telegram bot that converts YouTube videos to mp3",
	Long: `yt-to-mp3 is a Telegram bot: send it a link to a YouTube video
and it replies with the audio track as an mp3 file.

Converted files are cached on disk and removed after the retention period.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "не удалось прочитать %s", envFile)
		}
		return logger.Setup(logger.Options{
			Level:  v.GetString("log_level"),
			File:   v.GetString("log_file"),
			Output: logOutput,
		})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd.Context())
	},
}

func runBot(ctx context.Context) error {
	log := logger.New("MAIN")

	config, err := bot.NewBotConfig(v)
	if err != nil {
		return err
	}

	cache, err := storage.NewFileCache(config.CacheDir)
	if err != nil {
		return errors.Wrap(err, "папка кэша недоступна")
	}
	texts, err := i18n.NewDefault()
	if err != nil {
		return errors.Wrap(err, "не удалось загрузить переводы")
	}
	log.Info("Загружены языки: %s", strings.Join(texts.GetAvailableLanguages(), ", "))

	tgBot, err := bot.NewBot(config, bot.Dependencies{
		Cache:      cache,
		Fetcher:    downloader.NewYouTube(nil),
		Transcoder: downloader.NewFFmpeg(config.FFmpegPath, config.AudioBitrate),
		Texts:      texts,
	})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		storage.NewScheduler(cache, config.SweepInterval, config.Retention, config.SweepOnStart).Run(ctx)
	}()

	tgBot.Run(ctx)
	wg.Wait()
	log.Info("Бот остановлен")
	return nil
}

// Execute выполняет корневую команду. Вызывается из main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		logger.New("MAIN").Error("Ошибка запуска: %v", err)
		return err
	}
	return nil
}

func init() {
	bot.BindConfig(v)

	flags := rootCmd.PersistentFlags()
	flags.String("env-file", ".env", "Path to the .env file")
	flags.String("cache-dir", "", "Directory for converted mp3 files (env CACHE_DIR)")
	flags.String("log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.String("log-file", "", "Also write logs to this rotated file (env LOG_FILE)")

	_ = v.BindPFlag("cache_dir", flags.Lookup("cache-dir"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_file", flags.Lookup("log-file"))

	rootCmd.AddCommand(sweepCmd, versionCmd)
}
