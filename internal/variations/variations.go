// Package variations generates quality-gated A/B test mockups from an
// analyzed design system. Each layout pattern yields one generation prompt
// grounded in the document's extracted palette and typography, run through
// the regeneration loop so defective renders are retried automatically.
package variations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/regen"
	"github.com/kamilpajak/designlens/pkg/models"
)

// Generator produces pattern variations and styled restylings.
type Generator struct {
	gen     regen.Generator
	gate    regen.Checker
	budget  int
	emitter llm.ProgressEmitter
}

// New creates a variation generator with the given attempt budget per image.
func New(gen regen.Generator, gate regen.Checker, budget int, emitter llm.ProgressEmitter) *Generator {
	if emitter == nil {
		emitter = llm.NopEmitter{}
	}
	return &Generator{gen: gen, gate: gate, budget: budget, emitter: emitter}
}

// Variation is one generated A/B candidate with its audit trail.
type Variation struct {
	Pattern Pattern                    `json:"pattern"`
	Prompt  string                     `json:"prompt"`
	Report  *models.RegenerationReport `json:"report,omitempty"`
	Err     string                     `json:"error,omitempty"`
}

// Generate renders one variation per requested pattern concurrently.
// A pattern whose generation fails outright is reported with its error;
// other patterns are unaffected.
func (g *Generator) Generate(ctx context.Context, doc *models.Document, patterns []Pattern) []Variation {
	if len(patterns) == 0 {
		patterns = Patterns
	}

	results := make([]Variation, len(patterns))
	var wg sync.WaitGroup
	for i, pattern := range patterns {
		wg.Add(1)
		go func(i int, pattern Pattern) {
			defer wg.Done()
			prompt := buildPrompt(doc, pattern)
			loop := regen.New(g.gen, g.gate, g.budget, g.emitter)
			report, err := loop.Run(ctx, regen.Params{Prompt: prompt})
			v := Variation{Pattern: pattern, Prompt: prompt, Report: report}
			if err != nil {
				v.Err = err.Error()
			}
			results[i] = v
		}(i, pattern)
	}
	wg.Wait()
	return results
}

// Stylize restyles a captured screenshot with the given preset, gated the
// same way as pattern variations.
func (g *Generator) Stylize(ctx context.Context, screenshot []byte, preset StylePreset) (*models.RegenerationReport, error) {
	prompt := fmt.Sprintf("Restyle this web page design in the following aesthetic while keeping the page structure and content recognizable.\n\n%s", preset.Prompt)
	loop := regen.New(g.gen, g.gate, g.budget, g.emitter)
	return loop.Run(ctx, regen.Params{Prompt: prompt, Reference: screenshot})
}

// buildPrompt composes a generation prompt from the pattern and the
// document's extracted visual identity. Unresolved categories fall back
// to neutral defaults so a partial analysis still yields usable prompts.
func buildPrompt(doc *models.Document, pattern Pattern) string {
	var b strings.Builder
	b.WriteString("Create a modern, professional website landing page design with these specifications:\n\n")
	fmt.Fprintf(&b, "LAYOUT PATTERN: %s - %s\n\n", pattern.Name, pattern.Description)

	b.WriteString("VISUAL STYLE:\n")
	fmt.Fprintf(&b, "- Color scheme: %s\n", categoryText(doc, "color-contrast", "modern clean palette with strong brand accents"))
	fmt.Fprintf(&b, "- Typography: %s\n", categoryText(doc, "typography", "clean sans-serif fonts, bold headings, readable body text"))
	b.WriteString("- Modern, clean design aesthetic\n")
	b.WriteString("- Professional business website\n\n")

	b.WriteString("LAYOUT REQUIREMENTS:\n")
	for _, change := range pattern.KeyChanges {
		fmt.Fprintf(&b, "- %s\n", change)
	}

	b.WriteString("\nSPECIFIC ELEMENTS:\n")
	b.WriteString("- Header with navigation\n")
	b.WriteString("- Hero section with clear value proposition\n")
	b.WriteString("- Call-to-action buttons\n")
	b.WriteString("- Feature highlights or benefits\n")
	b.WriteString("- Social proof elements\n")
	b.WriteString("- Footer section\n\n")

	b.WriteString("STYLE: Clean, modern, professional, high-converting landing page design, flat design, minimal shadows, contemporary UI/UX")
	return b.String()
}

// categoryText flattens a resolved category payload into prompt text.
func categoryText(doc *models.Document, categoryID, fallback string) string {
	if doc == nil {
		return fallback
	}
	r := doc.Result(categoryID)
	if r == nil || r.Status != models.StatusOK || len(r.Payload) == 0 {
		return fallback
	}
	var asString string
	if err := json.Unmarshal(r.Payload, &asString); err == nil {
		return asString
	}
	compact := string(r.Payload)
	if len(compact) > 600 {
		compact = compact[:600]
	}
	return compact
}
