package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/ocrerr"
	"vision-ocr/internal/domain/port"
)

// Client vision-модель, доступная через Ollama chat API.
type Client struct {
	api    *api.Client
	host   string
	logger *slog.Logger
}

// NewClient создаёт клиента для сервиса по адресу host (например http://localhost:11434).
// httpClient может быть nil. Таймаут на запрос задаёт вызывающий через context.
func NewClient(host string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("ollama host must be an absolute URL, got %q", host)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		api:    api.NewClient(base, httpClient),
		host:   base.String(),
		logger: logger,
	}, nil
}

// Chat отправляет один запрос без стриминга и без повторов.
func (c *Client) Chat(ctx context.Context, req *entity.InferenceRequest) (*entity.InferenceReply, error) {
	chatReq := toChatRequest(req)

	c.logger.Info("sending chat request",
		"host", c.host,
		"model", req.Model,
		"messages", len(chatReq.Messages),
		"structured", len(chatReq.Format) > 0)

	var (
		resp     api.ChatResponse
		received bool
	)
	started := time.Now()
	err := c.api.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		resp = r
		received = true
		return nil
	})
	if err != nil {
		return nil, ocrerr.NewServiceError("chat request failed", err)
	}
	if !received {
		return nil, ocrerr.NewServiceError("invalid response format from Ollama API: empty body", nil)
	}
	// без message.content отвечать нечем, роль не проверяем
	if resp.Message.Content == "" {
		return nil, ocrerr.NewServiceError("invalid response format from Ollama API: missing message content", nil)
	}

	c.logger.Info("chat response received",
		"model", resp.Model,
		"done_reason", resp.DoneReason,
		"content_length", len(resp.Message.Content),
		"took_ms", time.Since(started).Milliseconds())

	return &entity.InferenceReply{
		Model:   resp.Model,
		Content: resp.Message.Content,
	}, nil
}

func toChatRequest(req *entity.InferenceRequest) *api.ChatRequest {
	stream := false

	messages := make([]api.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msg := api.Message{
			Role:    string(m.Role),
			Content: m.Content,
		}
		for _, img := range m.Images {
			msg.Images = append(msg.Images, api.ImageData(img))
		}
		messages = append(messages, msg)
	}

	return &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
		Format:   req.Schema,
		Options: map[string]any{
			"temperature": req.Sampling.Temperature,
			"top_p":       req.Sampling.TopP,
			"top_k":       req.Sampling.TopK,
		},
	}
}

var _ port.VisionModel = (*Client)(nil)
