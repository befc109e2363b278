package app

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/ocrerr"
	"vision-ocr/internal/domain/port"
)

const (
	// ReferenceSide длина длинной стороны после масштабирования
	ReferenceSide = 1024
	// DefaultMaxSizeBytes бюджет на размер JPEG
	DefaultMaxSizeBytes = 10 * 1024 * 1024

	startQuality = 95
	qualityStep  = 10
	// MinQuality ниже этого качества не опускаемся, результат принимается при любом размере
	MinQuality = 30
)

var supportedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"bmp":  {},
}

// SupportedExtensions список поддерживаемых расширений.
func SupportedExtensions() []string {
	out := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ValidateExtension проверяет расширение. Содержимое файла не проверяется.
func ValidateExtension(ext string) error {
	if _, ok := supportedExtensions[entity.NormalizeExtension(ext)]; !ok {
		return ocrerr.NewInvalidFormatError(ext, SupportedExtensions())
	}
	return nil
}

// ImagePreparer уменьшает изображение и подбирает качество JPEG под бюджет.
type ImagePreparer struct {
	codec        port.ImageCodec
	maxSizeBytes int
	logger       *slog.Logger
}

// NewImagePreparer создаёт подготовщик. maxSizeBytes <= 0 означает бюджет по умолчанию.
func NewImagePreparer(codec port.ImageCodec, maxSizeBytes int, logger *slog.Logger) *ImagePreparer {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return &ImagePreparer{
		codec:        codec,
		maxSizeBytes: maxSizeBytes,
		logger:       logger,
	}
}

// PrepareFile читает изображение с диска и готовит его к отправке.
func (p *ImagePreparer) PrepareFile(path string) (*entity.PreparedPayload, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ocrerr.NewNotFoundError(path, err)
		}
		return nil, fmt.Errorf("stat image: %w", err)
	}
	ext := entity.FileExtension(path)
	if err := ValidateExtension(ext); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	payload, err := p.Prepare(entity.SourceImage{Data: data, Extension: ext})
	if err != nil {
		p.logger.Error("failed to process image", "path", path, "error", err)
		return nil, err
	}
	return payload, nil
}

// Prepare масштабирует изображение до ReferenceSide по длинной стороне и
// пережимает его, снижая качество, пока размер не уложится в бюджет.
func (p *ImagePreparer) Prepare(src entity.SourceImage) (*entity.PreparedPayload, error) {
	if err := ValidateExtension(src.Extension); err != nil {
		return nil, err
	}

	frame, err := p.codec.Decode(src.Data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer frame.Close()

	origW, origH := frame.Size()
	p.logger.Info("original image",
		"width", origW,
		"height", origH,
		"size_mb", megabytes(len(src.Data)),
		"codec", p.codec.Name())

	newW, newH := TargetSize(origW, origH)
	resized, err := frame.Resize(newW, newH)
	if err != nil {
		return nil, fmt.Errorf("resize image: %w", err)
	}
	defer resized.Close()

	quality := startQuality
	for {
		data, err := resized.EncodeJPEG(quality)
		if err != nil {
			return nil, fmt.Errorf("encode jpeg (quality=%d): %w", quality, err)
		}

		if len(data) <= p.maxSizeBytes || quality <= MinQuality {
			p.logger.Info("final image",
				"width", newW,
				"height", newH,
				"size_mb", megabytes(len(data)),
				"quality", quality)
			return &entity.PreparedPayload{
				Width:     newW,
				Height:    newH,
				Quality:   quality,
				SizeBytes: len(data),
				Data:      data,
				Encoded:   base64.StdEncoding.EncodeToString(data),
			}, nil
		}

		quality = nextQuality(quality)
	}
}

// TargetSize приводит длинную сторону к ReferenceSide с сохранением пропорций.
// Короткая сторона отбрасывает дробную часть, но не бывает меньше 1.
func TargetSize(width, height int) (int, int) {
	long := max(width, height)
	if long <= 0 {
		return width, height
	}
	newW := max(width*ReferenceSide/long, 1)
	newH := max(height*ReferenceSide/long, 1)
	return newW, newH
}

func nextQuality(q int) int {
	return max(q-qualityStep, MinQuality)
}

func megabytes(n int) string {
	return fmt.Sprintf("%.2f", float64(n)/(1024*1024))
}
