package quality

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/pkg/models"
)

type fakeVision struct {
	result  *llm.AnalyzeResult
	err     error
	lastReq llm.AnalyzeRequest
}

func (f *fakeVision) Analyze(ctx context.Context, req llm.AnalyzeRequest) (*llm.AnalyzeResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func verdictResult(t *testing.T, v any) *llm.AnalyzeResult {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	var chunks map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &chunks))
	return &llm.AnalyzeResult{JSON: chunks, Text: string(data)}
}

func TestCheckCleanImageAccepted(t *testing.T) {
	gate := New(&fakeVision{result: verdictResult(t, map[string]any{
		"rating": "good",
		"issues": []any{},
	})})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	assert.True(t, verdict.Accepted())
	assert.Equal(t, models.RatingGood, verdict.Rating)
	assert.Empty(t, verdict.Issues)
}

func TestCheckJudgesAgainstReferenceAndInstruction(t *testing.T) {
	vision := &fakeVision{result: verdictResult(t, map[string]any{
		"rating": "good",
		"issues": []any{},
	})}
	gate := New(vision)

	_, err := gate.Check(context.Background(), CheckRequest{
		Image:       []byte("candidate"),
		Reference:   []byte("original"),
		Instruction: "hero section with centered headline",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("candidate"), vision.lastReq.Image)
	assert.Equal(t, []byte("original"), vision.lastReq.Reference)
	assert.Contains(t, vision.lastReq.Instruction, "original design it derives from")
	assert.Contains(t, vision.lastReq.Instruction, "hero section with centered headline")
}

func TestCheckOmitsComparisonFramingWithoutReference(t *testing.T) {
	vision := &fakeVision{result: verdictResult(t, map[string]any{
		"rating": "good",
		"issues": []any{},
	})}
	gate := New(vision)

	_, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)

	assert.Nil(t, vision.lastReq.Reference)
	assert.NotContains(t, vision.lastReq.Instruction, "second image")
}

func TestCheckHighSeverityForcesRegeneration(t *testing.T) {
	gate := New(&fakeVision{result: verdictResult(t, map[string]any{
		"rating": "fair",
		"issues": []map[string]string{{
			"kind":        "text-overflow",
			"description": "headline clipped by hero edge",
			"severity":    "high",
			"fix":         "keep headline within safe margins",
		}},
	})})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	assert.False(t, verdict.Accepted())
	assert.True(t, verdict.RegenerationNeeded)
}

func TestCheckFairWithMinorIssuesAccepted(t *testing.T) {
	gate := New(&fakeVision{result: verdictResult(t, map[string]any{
		"rating": "fair",
		"issues": []map[string]string{{
			"kind":        "low-contrast",
			"description": "footer links slightly dim",
			"severity":    "low",
			"fix":         "darken footer link color",
		}},
	})})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	assert.True(t, verdict.Accepted())
}

func TestCheckPoorRatingForcesRegenerationEvenWithoutIssues(t *testing.T) {
	gate := New(&fakeVision{result: verdictResult(t, map[string]any{
		"rating": "poor",
		"issues": []any{},
	})})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	assert.False(t, verdict.Accepted())
}

func TestCheckIgnoresModelProvidedRegenerationFlag(t *testing.T) {
	// The severity rule is authoritative: a model claiming regeneration is
	// needed for a clean good image is overruled.
	gate := New(&fakeVision{result: verdictResult(t, map[string]any{
		"rating":              "good",
		"issues":              []any{},
		"regeneration_needed": true,
	})})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	assert.True(t, verdict.Accepted())
}

func TestCheckMalformedResponseFailsSafe(t *testing.T) {
	gate := New(&fakeVision{err: &llm.ClientError{
		Kind:    llm.KindMalformed,
		Message: "the image looks mostly fine I think",
	}})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, models.RatingPoor, verdict.Rating)
	assert.True(t, verdict.RegenerationNeeded)
	require.Len(t, verdict.Issues, 1)
	assert.Equal(t, models.IssueOther, verdict.Issues[0].Kind)
	assert.Equal(t, "the image looks mostly fine I think", verdict.Issues[0].Fix)
}

func TestCheckUnrecognizedRatingFailsSafe(t *testing.T) {
	gate := New(&fakeVision{result: verdictResult(t, map[string]any{
		"rating": "splendid",
	})})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, models.RatingPoor, verdict.Rating)
	assert.True(t, verdict.RegenerationNeeded)
}

func TestCheckCoercesUnknownKindAndSeverity(t *testing.T) {
	gate := New(&fakeVision{result: verdictResult(t, map[string]any{
		"rating": "fair",
		"issues": []map[string]string{{
			"kind":        "weird-glitch",
			"description": "artifacting near the nav",
			"severity":    "catastrophic",
			"fix":         "render navigation crisply",
		}},
	})})

	verdict, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.NoError(t, err)
	require.Len(t, verdict.Issues, 1)
	assert.Equal(t, models.IssueOther, verdict.Issues[0].Kind)
	assert.Equal(t, models.SeverityMedium, verdict.Issues[0].Severity)
}

func TestCheckTransportErrorPropagates(t *testing.T) {
	gate := New(&fakeVision{err: &llm.ClientError{Kind: llm.KindTimeout, Message: "deadline"}})

	_, err := gate.Check(context.Background(), CheckRequest{Image: []byte("png")})
	require.Error(t, err)
	assert.True(t, llm.IsTimeout(err))
}
