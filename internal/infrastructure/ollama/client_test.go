package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-ocr/internal/domain/entity"
	"vision-ocr/internal/domain/ocrerr"
	"vision-ocr/internal/logging"
)

type capturedRequest struct {
	Model    string          `json:"model"`
	Stream   *bool           `json:"stream"`
	Format   json.RawMessage `json:"format"`
	Options  map[string]any  `json:"options"`
	Messages []struct {
		Role    string   `json:"role"`
		Content string   `json:"content"`
		Images  []string `json:"images"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRequest(schema json.RawMessage) *entity.InferenceRequest {
	return &entity.InferenceRequest{
		Model:    "gemma:7b",
		Sampling: entity.SamplingOptions{Temperature: 0.1, TopP: 0.9, TopK: 40},
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: "rules"},
			{Role: entity.RoleUser, Content: "extract", Images: [][]byte{[]byte("jpeg-bytes")}},
		},
		Schema: schema,
	}
}

func TestClient_ChatSendsRequestAndReturnsContent(t *testing.T) {
	var captured capturedRequest
	srv := newTestServer(t, `{"model":"gemma:7b","created_at":"2024-01-01T00:00:00Z","message":{"role":"assistant","content":"{\"Name\": \"RAZ-145\"}"},"done":true}`, &captured)

	client, err := NewClient(srv.URL, srv.Client(), logging.Discard())
	require.NoError(t, err)

	reply, err := client.Chat(context.Background(), testRequest(nil))
	require.NoError(t, err)
	require.Equal(t, `{"Name": "RAZ-145"}`, reply.Content)
	require.Equal(t, "gemma:7b", reply.Model)

	require.Equal(t, "gemma:7b", captured.Model)
	require.NotNil(t, captured.Stream)
	require.False(t, *captured.Stream)
	require.Empty(t, captured.Format)
	require.InDelta(t, 0.1, captured.Options["temperature"], 1e-9)
	require.InDelta(t, 0.9, captured.Options["top_p"], 1e-9)
	require.InDelta(t, 40, captured.Options["top_k"], 1e-9)

	require.Len(t, captured.Messages, 2)
	require.Equal(t, "system", captured.Messages[0].Role)
	require.Equal(t, "user", captured.Messages[1].Role)
	require.Equal(t, []string{base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))}, captured.Messages[1].Images)
}

func TestClient_ChatPassesSchema(t *testing.T) {
	var captured capturedRequest
	srv := newTestServer(t, `{"model":"gemma:7b","message":{"role":"assistant","content":"{}"},"done":true}`, &captured)

	client, err := NewClient(srv.URL, srv.Client(), logging.Discard())
	require.NoError(t, err)

	schema := json.RawMessage(`{"type":"object"}`)
	_, err = client.Chat(context.Background(), testRequest(schema))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"object"}`, string(captured.Format))
}

func TestClient_ChatMissingEnvelope(t *testing.T) {
	srv := newTestServer(t, `{"model":"gemma:7b","done":true}`, nil)

	client, err := NewClient(srv.URL, srv.Client(), logging.Discard())
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), testRequest(nil))
	require.ErrorIs(t, err, ocrerr.ErrService)
}

func TestClient_ChatMessageWithoutContent(t *testing.T) {
	srv := newTestServer(t, `{"model":"gemma:7b","message":{"role":"assistant"},"done":true}`, nil)

	client, err := NewClient(srv.URL, srv.Client(), logging.Discard())
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), testRequest(nil))
	require.ErrorIs(t, err, ocrerr.ErrService)
}

func TestClient_ChatMessageWithoutRole(t *testing.T) {
	srv := newTestServer(t, `{"message":{"content":"{\"a\":\"1\"}"}}`, nil)

	client, err := NewClient(srv.URL, srv.Client(), logging.Discard())
	require.NoError(t, err)

	reply, err := client.Chat(context.Background(), testRequest(nil))
	require.NoError(t, err)
	require.Equal(t, `{"a":"1"}`, reply.Content)
}

func TestClient_ChatServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"gemma:7b\" not found"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, srv.Client(), logging.Discard())
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), testRequest(nil))
	require.ErrorIs(t, err, ocrerr.ErrService)
	require.Contains(t, err.Error(), "not found")
}

func TestNewClient_RejectsRelativeHost(t *testing.T) {
	_, err := NewClient("localhost", nil, logging.Discard())
	require.Error(t, err)
}
