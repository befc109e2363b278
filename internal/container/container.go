package container

import (
	"fmt"
	"log/slog"

	"vision-ocr/config"
	app "vision-ocr/internal/application"
	"vision-ocr/internal/infrastructure/imaging"
	"vision-ocr/internal/infrastructure/ollama"
	"vision-ocr/internal/infrastructure/storage"
)

type Container struct {
	UserService *app.UserService
	OCRService  *app.OCRService
}

// New собирает сервисы из конфигурации. Соединение с Ollama не проверяется.
func New(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	codec := imaging.NewDefaultCodec()
	preparer := app.NewImagePreparer(codec, cfg.MaxImageBytes, logger.With("module", "preparer"))

	model, err := ollama.NewClient(cfg.OllamaHost, nil, logger.With("module", "ollama"))
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	ocrService := app.NewOCRService(
		preparer,
		model,
		storage.NewTempFileStore(cfg.TempDir),
		cfg.OllamaModel,
		logger.With("module", "ocr"),
	)
	userService := app.NewUserService(storage.NewMemoryUserRepository())

	return &Container{
		UserService: userService,
		OCRService:  ocrService,
	}, nil
}
