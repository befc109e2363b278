package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"vision-ocr/internal/domain/port"
)

// GoCodec кодек на чистом Go. Масштабирует фильтром Catmull-Rom.
type GoCodec struct{}

// NewGoCodec создаёт кодек без внешних зависимостей.
func NewGoCodec() *GoCodec {
	return &GoCodec{}
}

func (c *GoCodec) Name() string {
	return "go"
}

// Decode разбирает jpeg, png, gif (первый кадр) и bmp.
func (c *GoCodec) Decode(data []byte) (port.Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	return &goFrame{img: img}, nil
}

type goFrame struct {
	img image.Image
}

func (f *goFrame) Size() (int, int) {
	b := f.img.Bounds()
	return b.Dx(), b.Dy()
}

func (f *goFrame) Resize(width, height int) (port.Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), f.img, f.img.Bounds(), draw.Src, nil)
	return &goFrame{img: dst}, nil
}

func (f *goFrame) EncodeJPEG(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *goFrame) Close() error {
	return nil
}

var _ port.ImageCodec = (*GoCodec)(nil)
