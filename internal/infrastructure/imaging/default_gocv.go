//go:build gocv
// +build gocv

package imaging

import "vision-ocr/internal/domain/port"

// NewDefaultCodec со сборкой под тегом gocv используется OpenCV.
func NewDefaultCodec() port.ImageCodec {
	return NewCVCodec()
}
