package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
)

// AnalyzeRequest is one perception call: an image plus the instruction
// describing what to extract from it. Reference optionally carries a
// second image sent after the first, for comparison calls.
type AnalyzeRequest struct {
	Image       []byte
	Reference   []byte
	System      string
	Instruction string
	MaxTokens   int
	Temperature float64
}

// AnalyzeResult carries the raw model text plus the structured chunks
// extracted from it.
type AnalyzeResult struct {
	Text             string
	JSON             map[string]json.RawMessage
	PromptTokens     int
	CompletionTokens int
}

// Analyze sends an image and instruction to the vision model and returns
// the parsed response. A response with no recoverable JSON is a
// KindMalformed error carrying the raw text.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResult, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	messages := []chatMessage{}
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	parts := []contentPart{
		{Type: "text", Text: req.Instruction},
		{Type: "image_url", ImageURL: &imageURL{
			URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Image),
			Detail: "high",
		}},
	}
	if req.Reference != nil {
		parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{
			URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Reference),
			Detail: "high",
		}})
	}
	messages = append(messages, chatMessage{Role: "user", Content: parts})

	body, err := json.Marshal(chatRequest{
		Model:       c.visionModel,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, newClientError(KindService, "failed to marshal request: %v", err)
	}

	data, err := c.post(ctx, "/chat/completions", "application/json", body)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, newClientError(KindMalformed, "invalid response body: %v", err)
	}
	if len(resp.Choices) == 0 {
		return nil, newClientError(KindMalformed, "response has no choices")
	}

	text := resp.Choices[0].Message.Content
	chunks, err := ExtractJSON(text)
	if err != nil {
		return nil, &ClientError{Kind: KindMalformed, Message: text, Err: err}
	}

	return &AnalyzeResult{
		Text:             text,
		JSON:             chunks,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}
