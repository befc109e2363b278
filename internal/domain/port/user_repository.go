package port

import (
	"context"

	"vision-ocr/internal/domain/entity"
)

// UserRepository хранит режим распознавания, выбранный пользователем
type UserRepository interface {
	// Get возвращает пользователя по ID, создаёт нового в главном меню если не найден
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет состояние пользователя
	Save(ctx context.Context, user *entity.User) error
}
