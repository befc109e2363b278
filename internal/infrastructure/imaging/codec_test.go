package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: 255})
		}
	}
	return img
}

func TestGoCodec_DecodesSupportedFormats(t *testing.T) {
	img := testImage(40, 30)
	encoders := map[string]func(*bytes.Buffer) error{
		"png":  func(b *bytes.Buffer) error { return png.Encode(b, img) },
		"jpeg": func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) },
		"gif":  func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) },
		"bmp":  func(b *bytes.Buffer) error { return bmp.Encode(b, img) },
	}

	codec := NewGoCodec()
	for name, encode := range encoders {
		var buf bytes.Buffer
		require.NoError(t, encode(&buf), name)

		frame, err := codec.Decode(buf.Bytes())
		require.NoError(t, err, name)
		w, h := frame.Size()
		require.Equal(t, 40, w, name)
		require.Equal(t, 30, h, name)
		require.NoError(t, frame.Close())
	}
}

func TestGoCodec_DecodeGarbage(t *testing.T) {
	_, err := NewGoCodec().Decode([]byte("not an image"))
	require.Error(t, err)
}

func TestGoFrame_ResizeAndEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(64, 48)))

	frame, err := NewGoCodec().Decode(buf.Bytes())
	require.NoError(t, err)

	resized, err := frame.Resize(32, 24)
	require.NoError(t, err)
	w, h := resized.Size()
	require.Equal(t, 32, w)
	require.Equal(t, 24, h)

	high, err := resized.EncodeJPEG(95)
	require.NoError(t, err)
	low, err := resized.EncodeJPEG(30)
	require.NoError(t, err)
	require.Less(t, len(low), len(high))

	decoded, err := jpeg.Decode(bytes.NewReader(low))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 32, 24), decoded.Bounds())

	_, err = resized.Resize(0, 10)
	require.Error(t, err)
}

func TestNewDefaultCodec(t *testing.T) {
	require.NotNil(t, NewDefaultCodec())
	require.NotEmpty(t, NewDefaultCodec().Name())
}
