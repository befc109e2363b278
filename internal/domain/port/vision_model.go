package port

import (
	"context"

	"vision-ocr/internal/domain/entity"
)

// VisionModel интерфейс vision-модели
type VisionModel interface {
	// Chat отправляет один запрос и дожидается полного ответа
	Chat(ctx context.Context, req *entity.InferenceRequest) (*entity.InferenceReply, error)
}
