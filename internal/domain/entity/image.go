package entity

import (
	"path/filepath"
	"strings"
)

// SourceImage исходное изображение: байты и расширение файла (".jpg", "png" и т.п.).
type SourceImage struct {
	Data      []byte
	Extension string
}

// NormalizedExtension возвращает расширение без точки в нижнем регистре.
func (s SourceImage) NormalizedExtension() string {
	return NormalizeExtension(s.Extension)
}

// NormalizeExtension приводит ".JPG", "jpg" и "photo.jpg" к виду "jpg".
func NormalizeExtension(ext string) string {
	if strings.ContainsAny(ext, `/\`) || strings.Count(ext, ".") > 1 || (strings.Contains(ext, ".") && !strings.HasPrefix(ext, ".")) {
		ext = filepath.Ext(ext)
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FileExtension расширение имени файла с точкой. У "png" и ".jpg" расширения нет.
func FileExtension(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	return filepath.Ext(base)
}

// PreparedPayload уменьшенное и пережатое изображение, готовое к отправке модели.
type PreparedPayload struct {
	Width     int    // ширина после масштабирования
	Height    int    // высота после масштабирования
	Quality   int    // итоговое качество JPEG
	SizeBytes int    // размер JPEG в байтах
	Data      []byte // сами байты JPEG
	Encoded   string // base64 от Data
}
