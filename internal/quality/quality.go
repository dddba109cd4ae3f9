// Package quality assesses generated images against a visual defect
// rubric. The gate is fail-safe: a response it cannot interpret becomes a
// poor verdict that requests regeneration, so an unreadable assessment
// never lets a defective image through.
package quality

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/pkg/models"
)

// VisionClient is the perception capability the gate needs.
type VisionClient interface {
	Analyze(ctx context.Context, req llm.AnalyzeRequest) (*llm.AnalyzeResult, error)
}

// Gate runs the quality rubric against candidate images.
type Gate struct {
	client VisionClient
}

// New creates a quality gate.
func New(client VisionClient) *Gate {
	return &Gate{client: client}
}

const gateSystemPrompt = `You are a meticulous visual QA reviewer for generated web page mockups. You inspect images for rendering defects with the rigor of a print proofreader.`

// CheckRequest is one gate assessment: the candidate image, optionally the
// original design it derives from, and the instruction that produced it.
type CheckRequest struct {
	Image       []byte
	Reference   []byte
	Instruction string
}

// rubricPrompt enumerates the defect kinds the gate recognizes and frames
// the candidate against its reference and generation instruction when
// those are available.
func rubricPrompt(req CheckRequest) string {
	var b strings.Builder
	b.WriteString("Inspect this generated web page image for visual defects.\n\n")
	if req.Reference != nil {
		b.WriteString("The first image is the generated candidate. The second image is the original design it derives from; flag style-inconsistency wherever the candidate departs from the original's visual identity.\n\n")
	}
	if req.Instruction != "" {
		b.WriteString("The candidate was generated from this instruction; flag defects where it fails to satisfy it:\n")
		b.WriteString(req.Instruction)
		b.WriteString("\n\n")
	}
	b.WriteString("Check for each of these defect kinds:\n")
	for _, kind := range models.IssueKinds {
		fmt.Fprintf(&b, "- %s\n", kind)
	}
	b.WriteString("\nReturn a single JSON object inside a ```json fenced block:\n")
	b.WriteString(`{
  "rating": "good" | "fair" | "poor",
  "issues": [
    {
      "kind": "<one of the defect kinds above>",
      "description": "<what is wrong and where>",
      "severity": "low" | "medium" | "high",
      "fix": "<concrete instruction to avoid this defect when regenerating>"
    }
  ]
}`)
	b.WriteString("\n\nReport an empty issues list when the image is clean. Rate poor only when the image is unusable as-is.")
	return b.String()
}

// Check assesses one candidate image. Transport failures are returned as
// errors for the caller to count against its attempt budget; a response
// that arrives but cannot be interpreted yields the fail-safe verdict.
func (g *Gate) Check(ctx context.Context, req CheckRequest) (*models.QualityVerdict, error) {
	result, err := g.client.Analyze(ctx, llm.AnalyzeRequest{
		Image:       req.Image,
		Reference:   req.Reference,
		System:      gateSystemPrompt,
		Instruction: rubricPrompt(req),
		MaxTokens:   1500,
		Temperature: 0.0,
	})
	if err != nil {
		var ce *llm.ClientError
		if errors.As(err, &ce) && ce.Kind == llm.KindMalformed {
			return failSafe(ce.Message), nil
		}
		return nil, err
	}

	verdict, ok := decodeVerdict(result.JSON)
	if !ok {
		return failSafe(result.Text), nil
	}
	verdict.Normalize()
	return verdict, nil
}

// failSafe is the verdict for an assessment that could not be read: the
// image is presumed defective and the raw text is carried as the fix so
// the regeneration prompt still gets whatever signal the model produced.
func failSafe(raw string) *models.QualityVerdict {
	return &models.QualityVerdict{
		Rating: models.RatingPoor,
		Issues: []models.QualityIssue{{
			Kind:        models.IssueOther,
			Description: "quality assessment could not be interpreted",
			Severity:    models.SeverityHigh,
			Fix:         raw,
		}},
		RegenerationNeeded: true,
	}
}

// decodeVerdict reads the rating and issues out of the extracted chunks.
// A missing or unrecognized rating invalidates the whole verdict; issues
// with unknown kinds or severities are coerced to the nearest value
// rather than dropped.
func decodeVerdict(chunks map[string]json.RawMessage) (*models.QualityVerdict, bool) {
	ratingRaw, found := chunks["rating"]
	if !found {
		return nil, false
	}
	var rating models.Rating
	if err := json.Unmarshal(ratingRaw, &rating); err != nil {
		return nil, false
	}
	switch rating {
	case models.RatingGood, models.RatingFair, models.RatingPoor:
	default:
		return nil, false
	}

	verdict := &models.QualityVerdict{Rating: rating}
	if issuesRaw, found := chunks["issues"]; found {
		var issues []models.QualityIssue
		if err := json.Unmarshal(issuesRaw, &issues); err != nil {
			return nil, false
		}
		for i := range issues {
			issues[i].Kind = normalizeKind(issues[i].Kind)
			issues[i].Severity = normalizeSeverity(issues[i].Severity)
		}
		verdict.Issues = issues
	}
	return verdict, true
}

func normalizeKind(kind models.IssueKind) models.IssueKind {
	for _, known := range models.IssueKinds {
		if kind == known {
			return kind
		}
	}
	return models.IssueOther
}

func normalizeSeverity(s models.Severity) models.Severity {
	switch s {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return s
	default:
		return models.SeverityMedium
	}
}
