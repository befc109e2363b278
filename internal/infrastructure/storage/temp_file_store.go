package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"vision-ocr/internal/domain/port"
)

// TempFileStore складывает присланные изображения во временный каталог.
type TempFileStore struct {
	dir string
}

// NewTempFileStore dir == "" означает системный временный каталог
func NewTempFileStore(dir string) *TempFileStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempFileStore{dir: dir}
}

// Spool пишет данные в файл ocr-<uuid>.<ext>. При ошибке записи файл сразу удаляется.
func (s *TempFileStore) Spool(data []byte, ext string) (string, func() error, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("ocr-%s.%s", uuid.NewString(), ext))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		_ = os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}

	cleanup := func() error {
		err := os.Remove(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return path, cleanup, nil
}

var _ port.TempStore = (*TempFileStore)(nil)
