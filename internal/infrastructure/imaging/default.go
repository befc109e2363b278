//go:build !gocv
// +build !gocv

package imaging

import "vision-ocr/internal/domain/port"

// NewDefaultCodec без тега gocv используется кодек на чистом Go.
func NewDefaultCodec() port.ImageCodec {
	return NewGoCodec()
}
