package port

// Frame декодированное изображение, с которым работает подготовка.
type Frame interface {
	// Size возвращает ширину и высоту в пикселях
	Size() (width, height int)

	// Resize возвращает новый кадр заданного размера
	Resize(width, height int) (Frame, error)

	// EncodeJPEG кодирует кадр в JPEG с качеством 1..100
	EncodeJPEG(quality int) ([]byte, error)

	// Close освобождает ресурсы кадра
	Close() error
}

// ImageCodec декодер изображений
type ImageCodec interface {
	// Decode разбирает байты изображения
	Decode(data []byte) (Frame, error)

	// Name имя реализации, для логов
	Name() string
}
