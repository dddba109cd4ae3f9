package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return client
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}, "finish_reason": "stop"},
		},
		"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 50},
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestAnalyzeParsesFencedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)

		chatReply(t, w, "Here is what I found:\n```json\n{\"typography\": {\"heading\": \"Inter\"}}\n```")
	})

	result, err := client.Analyze(context.Background(), AnalyzeRequest{
		Image:       []byte("fake-png"),
		Instruction: "extract typography",
	})
	require.NoError(t, err)
	assert.Contains(t, result.JSON, "typography")
	assert.Equal(t, 100, result.PromptTokens)
}

func TestAnalyzeSendsImageAsDataURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		var parts []contentPart
		require.NoError(t, json.Unmarshal(req.Messages[1].Content, &parts))
		require.Len(t, parts, 2)
		assert.Equal(t, "image_url", parts[1].Type)
		assert.Contains(t, parts[1].ImageURL.URL, "data:image/png;base64,")

		chatReply(t, w, "```json\n{}\n```")
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{
		Image:       []byte{0x89, 0x50, 0x4e, 0x47},
		System:      "you are a design analyst",
		Instruction: "analyze",
	})
	require.NoError(t, err)
}

func TestAnalyzeSendsReferenceAsSecondImagePart(t *testing.T) {
	reference := []byte("reference-png")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)

		var parts []contentPart
		require.NoError(t, json.Unmarshal(req.Messages[0].Content, &parts))
		require.Len(t, parts, 3)
		assert.Equal(t, "image_url", parts[1].Type)
		assert.Equal(t, "image_url", parts[2].Type)
		assert.Contains(t, parts[2].ImageURL.URL, base64.StdEncoding.EncodeToString(reference))

		chatReply(t, w, "```json\n{}\n```")
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{
		Image:       []byte("candidate-png"),
		Reference:   reference,
		Instruction: "compare",
	})
	require.NoError(t, err)
}

func TestAnalyzeRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down"}}`))
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Image: []byte("img"), Instruction: "x"})
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Contains(t, err.Error(), "slow down")
}

func TestAnalyzeServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "upstream exploded"}}`))
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Image: []byte("img"), Instruction: "x"})
	require.Error(t, err)
	assert.Equal(t, KindService, KindOf(err))
}

func TestAnalyzeTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		chatReply(t, w, "```json\n{}\n```")
	})
	client.timeout = 20 * time.Millisecond

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Image: []byte("img"), Instruction: "x"})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestAnalyzeCancellationIsNotATimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		chatReply(t, w, "```json\n{}\n```")
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Analyze(ctx, AnalyzeRequest{Image: []byte("img"), Instruction: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsTimeout(err))
}

func TestAnalyzeMalformedResponseKeepsRawText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "I could not produce structured output, sorry.")
	})

	_, err := client.Analyze(context.Background(), AnalyzeRequest{Image: []byte("img"), Instruction: "x"})
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
	assert.Contains(t, err.Error(), "could not produce structured output")
}

func TestGenerateDecodesBase64(t *testing.T) {
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)

		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "1792x1024", req.Size)
		assert.Equal(t, "b64_json", req.ResponseFormat)

		resp := map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	img, err := client.Generate(context.Background(), GenerateRequest{Prompt: "a landing page"})
	require.NoError(t, err)
	assert.Equal(t, png, img)
}

func TestGenerateWithReferenceUsesEditsEndpoint(t *testing.T) {
	png := []byte("generated")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/edits", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "restyle the hero", r.FormValue("prompt"))

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		resp := map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	img, err := client.Generate(context.Background(), GenerateRequest{
		Prompt:    "restyle the hero",
		Reference: []byte("reference-png"),
	})
	require.NoError(t, err)
	assert.Equal(t, png, img)
}

func TestGenerateEmptyData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	_, err := client.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}
