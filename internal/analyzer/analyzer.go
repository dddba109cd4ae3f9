// Package analyzer orchestrates the staged extraction of a design system
// from page screenshots. The primary pass analyzes the full-page capture,
// either in one shot or as concurrent focused passes consolidated by a
// synthesis call. Optional segment passes fill gaps from scroll captures
// and a validation pass refines the provisional result. Stage failures
// degrade to per-category error results; only a primary pass that fails
// completely after retries aborts the job.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kamilpajak/designlens/internal/catalog"
	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/merge"
	"github.com/kamilpajak/designlens/pkg/models"
)

// DefaultMaxRetries bounds how many times a failed stage call is retried.
const DefaultMaxRetries = 2

// VisionClient is the perception capability the orchestrator needs.
type VisionClient interface {
	Analyze(ctx context.Context, req llm.AnalyzeRequest) (*llm.AnalyzeResult, error)
}

// Analyzer runs the staged analysis pipeline.
type Analyzer struct {
	client     VisionClient
	emitter    llm.ProgressEmitter
	maxRetries int
}

// New creates an analyzer. A nil emitter discards progress events.
func New(client VisionClient, emitter llm.ProgressEmitter, maxRetries int) *Analyzer {
	if emitter == nil {
		emitter = llm.NopEmitter{}
	}
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Analyzer{client: client, emitter: emitter, maxRetries: maxRetries}
}

// Params configures one analysis run.
type Params struct {
	URL            string
	Screenshot     []byte
	Segments       map[string][]byte // keyed by segment label, all optional
	SingleStage    bool
	SkipValidation bool
}

// Run executes the pipeline and merges all stage batches into a document.
// On cancellation the batches collected so far are merged into a partial
// document tagged incomplete, returned alongside the context error.
func (a *Analyzer) Run(ctx context.Context, p Params) (*models.Document, error) {
	categories := catalog.Categories()
	var batches []models.ResultBatch

	primary, err := a.runPrimary(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return a.partial(p.URL, categories, batches), ctx.Err()
		}
		return nil, err
	}
	batches = append(batches, *primary)

	for _, label := range models.SegmentLabels {
		image, found := p.Segments[label]
		if !found {
			continue
		}
		if ctx.Err() != nil {
			return a.partial(p.URL, categories, batches), ctx.Err()
		}
		batch, err := a.runSegment(ctx, label, image)
		if err != nil {
			a.emitter.Emit(llm.ProgressEvent{Type: "error", Stage: "segment", Message: fmt.Sprintf("segment %s failed: %v", label, err)})
			continue
		}
		batches = append(batches, *batch)
	}

	if ctx.Err() != nil {
		return a.partial(p.URL, categories, batches), ctx.Err()
	}

	if !p.SkipValidation {
		if batch, err := a.runValidation(ctx, p.Screenshot, categories, batches); err != nil {
			a.emitter.Emit(llm.ProgressEvent{Type: "error", Stage: "validation", Message: err.Error()})
		} else if batch != nil {
			batches = append(batches, *batch)
		}
	}

	doc := merge.Merge(categories, batches)
	doc.URL = p.URL
	a.emitter.Emit(llm.ProgressEvent{Type: "done", Message: "analysis complete"})
	return doc, nil
}

func (a *Analyzer) partial(url string, categories []models.Category, batches []models.ResultBatch) *models.Document {
	doc := merge.Merge(categories, batches)
	doc.URL = url
	doc.Incomplete = true
	return doc
}

// runPrimary produces the primary batch, retrying failed calls. An error
// return means the whole primary pass failed and the job cannot proceed.
func (a *Analyzer) runPrimary(ctx context.Context, p Params) (*models.ResultBatch, error) {
	if p.SingleStage {
		return a.runSingleStage(ctx, p.Screenshot)
	}
	return a.runMultiStage(ctx, p.Screenshot)
}

func (a *Analyzer) runSingleStage(ctx context.Context, screenshot []byte) (*models.ResultBatch, error) {
	a.emitter.Emit(llm.ProgressEvent{Type: "stage", Stage: "primary", Message: "single-stage analysis"})

	result, err := a.withRetries(ctx, func() (*llm.AnalyzeResult, error) {
		return a.client.Analyze(ctx, llm.AnalyzeRequest{
			Image:       screenshot,
			System:      systemPrompt,
			Instruction: analysisPrompt(catalog.SchemaJSON()),
			MaxTokens:   4000,
			Temperature: 0.0,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("primary analysis failed: %w", err)
	}

	return &models.ResultBatch{Role: models.RolePrimary, Results: resultsFromChunks(result.JSON)}, nil
}

// runMultiStage runs one focused pass per thematic group concurrently,
// then a synthesis call that consolidates the findings into the full
// schema. Failed groups degrade to error results for their categories;
// the pass is fatal only when every group fails. A failed synthesis falls
// back to the raw focused findings.
func (a *Analyzer) runMultiStage(ctx context.Context, screenshot []byte) (*models.ResultBatch, error) {
	a.emitter.Emit(llm.ProgressEvent{Type: "stage", Stage: "primary", Message: "multi-stage analysis"})

	type groupOutcome struct {
		chunks map[string]json.RawMessage
		err    error
	}
	outcomes := make(map[string]groupOutcome, len(catalog.GroupOrder))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, group := range catalog.GroupOrder {
		wg.Add(1)
		go func(group string) {
			defer wg.Done()
			result, err := a.withRetries(ctx, func() (*llm.AnalyzeResult, error) {
				return a.client.Analyze(ctx, llm.AnalyzeRequest{
					Image:       screenshot,
					System:      systemPrompt,
					Instruction: focusedPrompt(group, catalog.ByGroup(group)),
					MaxTokens:   1500,
					Temperature: 0.1,
				})
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcomes[group] = groupOutcome{err: err}
				return
			}
			outcomes[group] = groupOutcome{chunks: result.JSON}
		}(group)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	findings := make(map[string]json.RawMessage)
	failedGroups := make(map[string]error)
	for group, outcome := range outcomes {
		if outcome.err != nil {
			failedGroups[group] = outcome.err
			a.emitter.Emit(llm.ProgressEvent{Type: "error", Stage: "primary", Category: group, Message: outcome.err.Error()})
			continue
		}
		for id, payload := range outcome.chunks {
			if _, exists := findings[id]; !exists {
				findings[id] = payload
			}
		}
		a.emitter.Emit(llm.ProgressEvent{Type: "category", Stage: "primary", Category: group, Message: "focused analysis done"})
	}

	if len(failedGroups) == len(catalog.GroupOrder) {
		var first error
		for _, err := range failedGroups {
			first = err
			break
		}
		return nil, fmt.Errorf("all focused analyses failed: %w", first)
	}

	synthesized := findings
	findingsJSON, err := json.MarshalIndent(findings, "", "  ")
	if err == nil {
		result, synthErr := a.withRetries(ctx, func() (*llm.AnalyzeResult, error) {
			return a.client.Analyze(ctx, llm.AnalyzeRequest{
				Image:       screenshot,
				System:      systemPrompt,
				Instruction: synthesisPrompt(string(findingsJSON), catalog.SchemaJSON()),
				MaxTokens:   4000,
				Temperature: 0.1,
			})
		})
		if synthErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.emitter.Emit(llm.ProgressEvent{Type: "error", Stage: "synthesis", Message: synthErr.Error()})
		} else {
			synthesized = result.JSON
			a.emitter.Emit(llm.ProgressEvent{Type: "stage", Stage: "synthesis", Message: "synthesis complete"})
		}
	}

	results := resultsFromChunks(synthesized)
	for group, groupErr := range failedGroups {
		for _, cat := range catalog.ByGroup(group) {
			if _, covered := synthesized[cat.ID]; covered {
				continue
			}
			results = append(results, models.CategoryResult{
				CategoryID: cat.ID,
				Status:     models.StatusError,
				Diagnostic: groupErr.Error(),
			})
		}
	}

	return &models.ResultBatch{Role: models.RolePrimary, Results: results}, nil
}

func (a *Analyzer) runSegment(ctx context.Context, label string, image []byte) (*models.ResultBatch, error) {
	a.emitter.Emit(llm.ProgressEvent{Type: "stage", Stage: "segment", Message: label})

	result, err := a.withRetries(ctx, func() (*llm.AnalyzeResult, error) {
		return a.client.Analyze(ctx, llm.AnalyzeRequest{
			Image:       image,
			System:      systemPrompt,
			Instruction: segmentPrompt(label, catalog.SchemaJSON()),
			MaxTokens:   1500,
			Temperature: 0.1,
		})
	})
	if err != nil {
		return nil, err
	}

	return &models.ResultBatch{
		Role:    models.RoleSegment,
		Segment: label,
		Results: resultsFromChunks(result.JSON),
	}, nil
}

// runValidation reviews the provisionally merged document and returns a
// batch holding only the categories the model explicitly refined.
func (a *Analyzer) runValidation(ctx context.Context, screenshot []byte, categories []models.Category, batches []models.ResultBatch) (*models.ResultBatch, error) {
	a.emitter.Emit(llm.ProgressEvent{Type: "stage", Stage: "validation", Message: "validating analysis"})

	provisional := merge.Merge(categories, batches)
	analysisJSON, err := json.Marshal(provisional)
	if err != nil {
		return nil, err
	}

	result, err := a.withRetries(ctx, func() (*llm.AnalyzeResult, error) {
		return a.client.Analyze(ctx, llm.AnalyzeRequest{
			Image:       screenshot,
			System:      systemPrompt,
			Instruction: validationPrompt(string(analysisJSON)),
			MaxTokens:   4000,
			Temperature: 0.1,
		})
	})
	if err != nil {
		return nil, err
	}

	results := resultsFromChunks(result.JSON)
	if len(results) == 0 {
		return nil, nil
	}
	return &models.ResultBatch{Role: models.RoleValidation, Results: results}, nil
}

// withRetries invokes the call up to maxRetries+1 times. Malformed
// responses are retried like transport failures since the model may
// produce parseable output on another attempt. Context errors stop
// retrying immediately.
func (a *Analyzer) withRetries(ctx context.Context, call func() (*llm.AnalyzeResult, error)) (*llm.AnalyzeResult, error) {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		result, err := call()
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var ce *llm.ClientError
		if !errors.As(err, &ce) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// resultsFromChunks converts model output keyed by category ID into ok
// results, dropping keys that match no catalog category.
func resultsFromChunks(chunks map[string]json.RawMessage) []models.CategoryResult {
	var results []models.CategoryResult
	for _, id := range catalog.IDs() {
		payload, found := chunks[id]
		if !found || len(payload) == 0 {
			continue
		}
		results = append(results, models.CategoryResult{
			CategoryID: id,
			Status:     models.StatusOK,
			Payload:    payload,
		})
	}
	return results
}
