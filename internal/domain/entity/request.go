package entity

import "encoding/json"

// Mode режим извлечения.
type Mode string

const (
	ModeFreeForm Mode = "text"  // произвольные пары ключ-значение
	ModeLabel    Mode = "label" // фиксированная схема LabelRecord
)

// Role роль сообщения в диалоге с моделью.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// SamplingOptions параметры сэмплирования модели.
type SamplingOptions struct {
	Temperature float64
	TopP        float64
	TopK        int
}

// Message одно сообщение запроса. Изображения передаются сырыми байтами,
// транспорт сам кодирует их в base64.
type Message struct {
	Role    Role
	Content string
	Images  [][]byte
}

// InferenceRequest запрос к vision-модели.
type InferenceRequest struct {
	Model    string
	Sampling SamplingOptions
	Messages []Message
	Schema   json.RawMessage // пусто в свободном режиме
}

// InferenceReply ответ модели как есть.
type InferenceReply struct {
	Model   string
	Content string
}
