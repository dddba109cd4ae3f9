package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
)

// GenerateRequest is one image synthesis call. When Reference is set the
// call is an edit of that image; otherwise a fresh generation.
type GenerateRequest struct {
	Prompt    string
	Reference []byte
	Size      string
	Quality   string
}

// Generate produces a PNG image from the prompt. The response is decoded
// from base64 so callers always receive raw image bytes.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]byte, error) {
	size := req.Size
	if size == "" {
		size = "1792x1024"
	}
	quality := req.Quality
	if quality == "" {
		quality = "hd"
	}

	var data []byte
	var err error
	if len(req.Reference) > 0 {
		data, err = c.postImageEdit(ctx, req.Prompt, req.Reference, size)
	} else {
		var body []byte
		body, err = json.Marshal(imageRequest{
			Model:          c.imageModel,
			Prompt:         req.Prompt,
			Size:           size,
			Quality:        quality,
			N:              1,
			ResponseFormat: "b64_json",
		})
		if err != nil {
			return nil, newClientError(KindService, "failed to marshal request: %v", err)
		}
		data, err = c.post(ctx, "/images/generations", "application/json", body)
	}
	if err != nil {
		return nil, err
	}

	var resp imageResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, newClientError(KindMalformed, "invalid image response: %v", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, newClientError(KindMalformed, "image response has no data")
	}

	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, newClientError(KindMalformed, "image payload is not valid base64: %v", err)
	}
	return img, nil
}

// postImageEdit builds the multipart form the edits endpoint expects.
func (c *Client) postImageEdit(ctx context.Context, prompt string, reference []byte, size string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", "reference.png")
	if err != nil {
		return nil, newClientError(KindService, "failed to build form: %v", err)
	}
	if _, err := part.Write(reference); err != nil {
		return nil, newClientError(KindService, "failed to build form: %v", err)
	}
	_ = w.WriteField("model", c.imageModel)
	_ = w.WriteField("prompt", prompt)
	_ = w.WriteField("size", size)
	_ = w.WriteField("n", "1")
	if err := w.Close(); err != nil {
		return nil, newClientError(KindService, "failed to build form: %v", err)
	}

	return c.post(ctx, "/images/edits", w.FormDataContentType(), buf.Bytes())
}
