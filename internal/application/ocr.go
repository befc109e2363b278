package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/port"
)

// OCRService конвейер подготовка -> запрос к модели -> разбор ответа.
// Состояния между вызовами не хранит.
type OCRService struct {
	preparer *ImagePreparer
	model    port.VisionModel
	temp     port.TempStore
	modelID  string
	logger   *slog.Logger
}

// NewOCRService создаёт сервис распознавания. modelID имя модели на стороне сервиса.
func NewOCRService(preparer *ImagePreparer, model port.VisionModel, temp port.TempStore, modelID string, logger *slog.Logger) *OCRService {
	return &OCRService{
		preparer: preparer,
		model:    model,
		temp:     temp,
		modelID:  modelID,
		logger:   logger,
	}
}

// ExtractText распознаёт весь текст на изображении в свободном режиме.
func (s *OCRService) ExtractText(ctx context.Context, imagePath string) (*entity.OCRResult, error) {
	logger := s.requestLogger(entity.ModeFreeForm, imagePath)

	reply, err := s.invoke(ctx, logger, imagePath, NewFreeFormRequest)
	if err != nil {
		return nil, err
	}
	return ParseFreeForm(reply.Content, logger)
}

// ExtractLabel распознаёт этикетку в режиме схемы.
func (s *OCRService) ExtractLabel(ctx context.Context, imagePath string) (*entity.LabelRecord, error) {
	logger := s.requestLogger(entity.ModeLabel, imagePath)

	reply, err := s.invoke(ctx, logger, imagePath, NewLabelRequest)
	if err != nil {
		return nil, err
	}
	return ParseLabel(reply.Content, logger)
}

// ExtractTextBytes сохраняет изображение во временный файл и распознаёт его.
// Файл удаляется на любом пути выхода.
func (s *OCRService) ExtractTextBytes(ctx context.Context, src entity.SourceImage) (result *entity.OCRResult, err error) {
	err = s.withTempFile(src, func(path string) error {
		var runErr error
		result, runErr = s.ExtractText(ctx, path)
		return runErr
	})
	return result, err
}

// ExtractLabelBytes то же для режима схемы.
func (s *OCRService) ExtractLabelBytes(ctx context.Context, src entity.SourceImage) (record *entity.LabelRecord, err error) {
	err = s.withTempFile(src, func(path string) error {
		var runErr error
		record, runErr = s.ExtractLabel(ctx, path)
		return runErr
	})
	return record, err
}

func (s *OCRService) invoke(
	ctx context.Context,
	logger *slog.Logger,
	imagePath string,
	build func(model string, payload *entity.PreparedPayload) *entity.InferenceRequest,
) (*entity.InferenceReply, error) {
	logger.Info("processing image")

	payload, err := s.preparer.PrepareFile(imagePath)
	if err != nil {
		return nil, err
	}

	reply, err := s.model.Chat(ctx, build(s.modelID, payload))
	if err != nil {
		logger.Error("vision model request failed", "error", err)
		return nil, err
	}
	return reply, nil
}

func (s *OCRService) withTempFile(src entity.SourceImage, fn func(path string) error) (err error) {
	if err := ValidateExtension(src.Extension); err != nil {
		return err
	}

	path, cleanup, err := s.temp.Spool(src.Data, src.NormalizedExtension())
	if err != nil {
		return fmt.Errorf("save temp image: %w", err)
	}
	defer func() {
		if cerr := cleanup(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("remove temp image: %w", cerr))
		}
	}()

	return fn(path)
}

func (s *OCRService) requestLogger(mode entity.Mode, imagePath string) *slog.Logger {
	return s.logger.With(
		"request_id", uuid.NewString(),
		"mode", string(mode),
		"image", imagePath,
		"model", s.modelID,
	)
}
