package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON indicates the model response contained no recoverable JSON.
var ErrNoJSON = errors.New("no JSON object found in response")

// ExtractJSON pulls structured data out of a model response. Fenced
// ```json blocks are preferred; when several appear their top-level keys
// are merged, earlier chunks winning on conflict. Without fences the
// substring between the first '{' and last '}' is tried as a fallback.
func ExtractJSON(text string) (map[string]json.RawMessage, error) {
	merged := make(map[string]json.RawMessage)

	for _, chunk := range fencedChunks(text) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(chunk), &obj); err != nil {
			continue
		}
		for k, v := range obj {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}
	if len(merged) > 0 {
		return merged, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err == nil {
			return obj, nil
		}
	}

	return nil, ErrNoJSON
}

// fencedChunks returns the contents of every ```json fenced block, in
// document order.
func fencedChunks(text string) []string {
	var chunks []string
	rest := text
	for {
		idx := strings.Index(rest, "```json")
		if idx < 0 {
			break
		}
		rest = rest[idx+len("```json"):]
		end := strings.Index(rest, "```")
		if end < 0 {
			chunks = append(chunks, strings.TrimSpace(rest))
			break
		}
		chunks = append(chunks, strings.TrimSpace(rest[:end]))
		rest = rest[end+3:]
	}
	return chunks
}
