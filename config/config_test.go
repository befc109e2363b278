package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv сбрасывает переменные, которые мог выставить .env разработчика.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OLLAMA_HOST", "OLLAMA_MODEL", "OCR_MAX_IMAGE_BYTES", "OCR_REQUEST_TIMEOUT", "OCR_TEMP_DIR", "LOG_LEVEL", "TELEGRAM_TOKEN", "OCR_CONFIG_FILE"} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultOllamaHost, cfg.OllamaHost)
	require.Equal(t, DefaultOllamaModel, cfg.OllamaModel)
	require.Equal(t, DefaultMaxImageBytes, cfg.MaxImageBytes)
	require.Zero(t, cfg.RequestTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "ocr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama_model: llava:13b\nrequest_timeout_seconds: 90\nollama_host: http://gpu-box:11434\n"), 0o600))

	t.Setenv("OCR_CONFIG_FILE", path)
	t.Setenv("OLLAMA_HOST", "ollama.local:11434")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://ollama.local:11434", cfg.OllamaHost)
	require.Equal(t, "llava:13b", cfg.OllamaModel)
	require.Equal(t, 90*time.Second, cfg.RequestTimeout)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("OCR_CONFIG_FILE", "/does/not/exist.yaml")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{OllamaHost: DefaultOllamaHost, OllamaModel: "m", MaxImageBytes: 1}
	require.NoError(t, cfg.Validate())

	cfg.MaxImageBytes = 0
	require.Error(t, cfg.Validate())

	cfg.MaxImageBytes = 1
	cfg.OllamaModel = ""
	require.Error(t, cfg.Validate())
}
