package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOllamaHost    = "http://localhost:11434"
	DefaultOllamaModel   = "gemma:7b"
	DefaultMaxImageBytes = 10 * 1024 * 1024
)

type Config struct {
	OllamaHost     string
	OllamaModel    string
	MaxImageBytes  int
	RequestTimeout time.Duration // 0 значит без таймаута
	TempDir        string
	LogLevel       string
	TelegramToken  string
}

// fileConfig необязательный YAML-файл (OCR_CONFIG_FILE). Переменные окружения важнее.
type fileConfig struct {
	OllamaHost            string `yaml:"ollama_host"`
	OllamaModel           string `yaml:"ollama_model"`
	MaxImageBytes         int    `yaml:"max_image_bytes"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	TempDir               string `yaml:"temp_dir"`
	LogLevel              string `yaml:"log_level"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	var file fileConfig
	if path := os.Getenv("OCR_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := &Config{
		OllamaHost:     normalizeHost(getEnvOrDefault("OLLAMA_HOST", orDefault(file.OllamaHost, DefaultOllamaHost))),
		OllamaModel:    getEnvOrDefault("OLLAMA_MODEL", orDefault(file.OllamaModel, DefaultOllamaModel)),
		MaxImageBytes:  getEnvAsIntOrDefault("OCR_MAX_IMAGE_BYTES", orDefaultInt(file.MaxImageBytes, DefaultMaxImageBytes)),
		RequestTimeout: time.Duration(getEnvAsIntOrDefault("OCR_REQUEST_TIMEOUT", file.RequestTimeoutSeconds)) * time.Second,
		TempDir:        getEnvOrDefault("OCR_TEMP_DIR", file.TempDir),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", orDefault(file.LogLevel, "info")),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate проверяет значения, без которых конвейер не запустится
func (c *Config) Validate() error {
	u, err := url.Parse(c.OllamaHost)
	if err != nil || u.Host == "" {
		return fmt.Errorf("OLLAMA_HOST must be a URL, got %q", c.OllamaHost)
	}
	if c.OllamaModel == "" {
		return fmt.Errorf("OLLAMA_MODEL is required")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("OCR_MAX_IMAGE_BYTES must be positive, got %d", c.MaxImageBytes)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("OCR_REQUEST_TIMEOUT must not be negative, got %v", c.RequestTimeout)
	}
	return nil
}

// normalizeHost допускает "localhost:11434" без схемы, как это делает сам ollama.
func normalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return host
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func orDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func orDefaultInt(value, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}
	return value
}
