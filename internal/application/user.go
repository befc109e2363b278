package app

import (
	"context"
	"errors"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/port"
)

// ErrUserBusy предыдущее изображение пользователя ещё обрабатывается
var ErrUserBusy = errors.New("user is already processing an image")

// UserService ведёт пользователя по сценарию бота
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginText ждём фото для распознавания всего текста
func (s *UserService) BeginText(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingTextPhoto)
}

// BeginLabel ждём фото этикетки
func (s *UserService) BeginLabel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingLabelPhoto)
}

// StartProcessing помечает пользователя занятым и возвращает режим,
// выбранный до прихода фото. Занятый пользователь получает ErrUserBusy.
func (s *UserService) StartProcessing(ctx context.Context, userID, chatID int64) (entity.Mode, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return "", err
	}
	if user.State == entity.StateProcessing {
		return "", ErrUserBusy
	}
	mode := user.Mode()

	user.SetState(entity.StateProcessing)
	if err := s.repo.Save(ctx, user); err != nil {
		return "", err
	}
	return mode, nil
}

// FinishProcessing возвращает в главное меню, если пользователь всё ещё занят.
// Режим, выбранный командой во время обработки, сохраняется.
func (s *UserService) FinishProcessing(ctx context.Context, userID, chatID int64) error {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return err
	}
	if user.State != entity.StateProcessing {
		return nil
	}

	user.SetState(entity.StateMainMenu)
	return s.repo.Save(ctx, user)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
