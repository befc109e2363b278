package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu           UserState = "main_menu"            // В главном меню
	StateAwaitingTextPhoto  UserState = "awaiting_text_photo"  // Ожидание фото для распознавания текста
	StateAwaitingLabelPhoto UserState = "awaiting_label_photo" // Ожидание фото этикетки
	StateProcessing         UserState = "processing"           // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Mode возвращает режим распознавания для текущего состояния.
// Из главного меню фото распознаётся в свободном режиме.
func (u *User) Mode() Mode {
	if u.State == StateAwaitingLabelPhoto {
		return ModeLabel
	}
	return ModeFreeForm
}
