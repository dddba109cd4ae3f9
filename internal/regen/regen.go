// Package regen drives the quality-gated image generation loop: generate
// a candidate, check it, and retry with a revised prompt carrying the
// gate's fix instructions until the candidate is accepted or the attempt
// budget runs out. The full attempt history is retained as an audit trail.
package regen

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/quality"
	"github.com/kamilpajak/designlens/pkg/models"
)

// DefaultBudget is the attempt budget when none is configured.
const DefaultBudget = 3

// Generator produces candidate images.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) ([]byte, error)
}

// Checker assesses candidate images against the reference design and the
// instruction that produced them.
type Checker interface {
	Check(ctx context.Context, req quality.CheckRequest) (*models.QualityVerdict, error)
}

// Loop runs the generate-check-revise cycle.
type Loop struct {
	gen     Generator
	gate    Checker
	budget  int
	emitter llm.ProgressEmitter
}

// New creates a loop with the given attempt budget. A non-positive
// budget falls back to the default.
func New(gen Generator, gate Checker, budget int, emitter llm.ProgressEmitter) *Loop {
	if budget <= 0 {
		budget = DefaultBudget
	}
	if emitter == nil {
		emitter = llm.NopEmitter{}
	}
	return &Loop{gen: gen, gate: gate, budget: budget, emitter: emitter}
}

// Params configures one loop run.
type Params struct {
	Prompt    string
	Reference []byte
	Size      string
	Quality   string
}

// Run executes the loop. Every attempt is recorded, including ones where
// generation or the gate itself failed; those consume budget with a
// synthetic failing verdict so a flaky gate cannot spin the loop forever.
// The report's final attempt carries the surfaced image. Cancellation
// returns the attempts made so far, marked cancelled, alongside the
// context error.
func (l *Loop) Run(ctx context.Context, p Params) (*models.RegenerationReport, error) {
	report := &models.RegenerationReport{}
	prompt := p.Prompt

	for attempt := 1; attempt <= l.budget; attempt++ {
		if ctx.Err() != nil {
			report.State = models.StateCancelled
			return report, ctx.Err()
		}
		l.emitter.Emit(llm.ProgressEvent{Type: "attempt", Stage: "regen", Attempt: attempt, Budget: l.budget, Message: "generating"})

		image, err := l.gen.Generate(ctx, llm.GenerateRequest{
			Prompt:    prompt,
			Reference: p.Reference,
			Size:      p.Size,
			Quality:   p.Quality,
		})
		if err != nil {
			if ctx.Err() != nil {
				report.State = models.StateCancelled
				return report, ctx.Err()
			}
			report.Attempts = append(report.Attempts, models.Attempt{
				Index:   attempt,
				Prompt:  prompt,
				Verdict: syntheticFailure("image generation failed", err),
			})
			continue
		}

		verdict, err := l.gate.Check(ctx, quality.CheckRequest{
			Image:       image,
			Reference:   p.Reference,
			Instruction: prompt,
		})
		if err != nil {
			if ctx.Err() != nil {
				report.State = models.StateCancelled
				return report, ctx.Err()
			}
			v := syntheticFailure("quality check failed", err)
			verdict = &v
		}

		report.Attempts = append(report.Attempts, models.Attempt{
			Index:   attempt,
			Prompt:  prompt,
			Image:   image,
			Verdict: *verdict,
		})

		if verdict.Accepted() {
			report.State = models.StateAccepted
			l.emitter.Emit(llm.ProgressEvent{Type: "attempt", Stage: "regen", Attempt: attempt, Budget: l.budget, Message: "accepted"})
			return report, nil
		}

		prompt = revisePrompt(p.Prompt, verdict)
	}

	report.State = models.StateExhausted
	report.BestEffort = true
	l.emitter.Emit(llm.ProgressEvent{Type: "attempt", Stage: "regen", Attempt: l.budget, Budget: l.budget, Message: "budget exhausted, surfacing best effort"})
	return report, nil
}

// syntheticFailure stands in for a verdict the gate never produced. It
// fails the attempt so the error consumes budget like any rejection.
func syntheticFailure(reason string, err error) models.QualityVerdict {
	return models.QualityVerdict{
		Rating: models.RatingPoor,
		Issues: []models.QualityIssue{{
			Kind:        models.IssueOther,
			Description: fmt.Sprintf("%s: %v", reason, err),
			Severity:    models.SeverityHigh,
		}},
		RegenerationNeeded: true,
	}
}

// revisePrompt appends the verdict's fix instructions to the base prompt,
// most severe defects first.
func revisePrompt(base string, verdict *models.QualityVerdict) string {
	fixes := verdict.FixesBySeverity()
	if len(fixes) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nThe previous attempt had visual defects. Apply these corrections:\n")
	for _, fix := range fixes {
		b.WriteString("- ")
		b.WriteString(fix)
		b.WriteByte('\n')
	}
	return b.String()
}
