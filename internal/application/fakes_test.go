package app

import (
	"context"
	"errors"
	"fmt"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/port"
)

// fakeCodec отдаёт кадр заданного размера. Размер JPEG зависит от encodedSize.
type fakeCodec struct {
	width, height int
	decodeErr     error
	encodedSize   func(width, height, quality int) int

	qualities []int
	resizedTo [2]int
}

func (c *fakeCodec) Decode(data []byte) (port.Frame, error) {
	if c.decodeErr != nil {
		return nil, c.decodeErr
	}
	return &fakeFrame{codec: c, width: c.width, height: c.height}, nil
}

func (c *fakeCodec) Name() string { return "fake" }

type fakeFrame struct {
	codec         *fakeCodec
	width, height int
}

func (f *fakeFrame) Size() (int, int) { return f.width, f.height }

func (f *fakeFrame) Resize(width, height int) (port.Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	f.codec.resizedTo = [2]int{width, height}
	return &fakeFrame{codec: f.codec, width: width, height: height}, nil
}

func (f *fakeFrame) EncodeJPEG(quality int) ([]byte, error) {
	f.codec.qualities = append(f.codec.qualities, quality)
	size := f.width * f.height * quality / 100
	if f.codec.encodedSize != nil {
		size = f.codec.encodedSize(f.width, f.height, quality)
	}
	return make([]byte, size), nil
}

func (f *fakeFrame) Close() error { return nil }

// fakeModel запоминает запрос и отвечает заготовленным текстом.
type fakeModel struct {
	content string
	err     error

	requests []*entity.InferenceRequest
}

func (m *fakeModel) Chat(_ context.Context, req *entity.InferenceRequest) (*entity.InferenceReply, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &entity.InferenceReply{Model: req.Model, Content: m.content}, nil
}

// recordingStore оборачивает TempStore и запоминает выданные пути.
type recordingStore struct {
	next  port.TempStore
	paths []string
}

func (s *recordingStore) Spool(data []byte, ext string) (string, func() error, error) {
	path, cleanup, err := s.next.Spool(data, ext)
	if err == nil {
		s.paths = append(s.paths, path)
	}
	return path, cleanup, err
}

var errBrokenImage = errors.New("broken image")
