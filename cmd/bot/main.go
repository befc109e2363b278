package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vision-ocr/config"
	telegram "vision-ocr/internal/api"
	"vision-ocr/internal/container"
	"vision-ocr/internal/logging"
)

func main() {
	os.Exit(run())
}

// run возвращает код выхода, чтобы отложенные вызовы успели отработать
func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	if cfg.TelegramToken == "" {
		log.Print("TELEGRAM_TOKEN is required")
		return 1
	}

	logger := logging.New("bot", cfg.LogLevel)

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg, logger)
	if err != nil {
		log.Printf("Failed to build services: %v", err)
		return 1
	}

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.UserService, appContainer.OCRService, cfg.RequestTimeout, logger)
	if err != nil {
		log.Printf("Failed to create bot: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("bot is running", "ollama_host", cfg.OllamaHost, "model", cfg.OllamaModel)
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Bot error: %v", err)
		return 1
	}
	logger.Info("bot stopped")
	return 0
}
