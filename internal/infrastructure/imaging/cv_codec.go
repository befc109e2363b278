//go:build gocv
// +build gocv

package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-ocr/internal/domain/port"
)

// CVCodec кодек на OpenCV. Масштабирует фильтром Lanczos4.
type CVCodec struct{}

// NewCVCodec создаёт кодек на OpenCV
func NewCVCodec() *CVCodec {
	return &CVCodec{}
}

func (c *CVCodec) Name() string {
	return "gocv"
}

// Decode превращает байты изображения в gocv.Mat. GIF OpenCV не читает,
// такие файлы декодируются средствами Go и переносятся в Mat.
func (c *CVCodec) Decode(data []byte) (port.Frame, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return &cvFrame{mat: mat}, nil
	}
	if err == nil {
		mat.Close()
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.New("failed to decode image")
	}
	mat, err = gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image to mat: %w", err)
	}
	return &cvFrame{mat: mat}, nil
}

type cvFrame struct {
	mat gocv.Mat
}

func (f *cvFrame) Size() (int, int) {
	return f.mat.Cols(), f.mat.Rows()
}

func (f *cvFrame) Resize(width, height int) (port.Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	resized := gocv.NewMat()
	gocv.Resize(f.mat, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLanczos4)
	if resized.Empty() {
		resized.Close()
		return nil, errors.New("resize produced empty image")
	}
	return &cvFrame{mat: resized}, nil
}

func (f *cvFrame) EncodeJPEG(quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, f.mat, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	return bytes.Clone(buf.GetBytes()), nil
}

func (f *cvFrame) Close() error {
	return f.mat.Close()
}

var _ port.ImageCodec = (*CVCodec)(nil)
