package designlens

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kamilpajak/designlens/internal/analyzer"
	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/quality"
	"github.com/kamilpajak/designlens/internal/variations"
	"github.com/kamilpajak/designlens/pkg/models"
)

var (
	variationsPatterns []string
	variationsOut      string
)

var variationsCmd = &cobra.Command{
	Use:   "variations <url>",
	Short: "Generate A/B layout variations from a page's design system",
	Long: `Analyze a page, then generate one quality-gated mockup per layout
pattern using the extracted palette and typography.

Examples:
  designlens variations https://example.com
  designlens variations https://example.com --pattern hero-first --pattern feature-grid
  designlens variations https://example.com --out ./mockups`,
	Args: cobra.ExactArgs(1),
	RunE: runVariations,
}

func init() {
	variationsCmd.Flags().StringSliceVar(&variationsPatterns, "pattern", nil, "Pattern IDs to generate (default all)")
	variationsCmd.Flags().StringVarP(&variationsOut, "out", "o", "variations", "Output directory for generated images")
}

func runVariations(cmd *cobra.Command, args []string) error {
	url := args[0]

	patterns, err := variations.ByIDs(variationsPatterns)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	capture, err := capturePage(url, cfg, true)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	ctx := context.Background()
	emitter := &llm.TextEmitter{W: os.Stderr}

	a := analyzer.New(client, emitter, cfg.MaxRetries)
	doc, err := a.Run(ctx, analyzer.Params{
		URL:        url,
		Screenshot: capture.FullPage,
		Segments:   capture.Segments,
	})
	if err != nil && doc == nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Generating %d variations...\n", len(patterns))
	g := variations.New(client, quality.New(client), cfg.AttemptBudget, emitter)
	results := g.Generate(ctx, doc, patterns)

	if err := os.MkdirAll(variationsOut, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, v := range results {
		printVariation(v)
		if v.Report == nil {
			continue
		}
		if final := v.Report.Final(); final != nil && final.Image != nil {
			path := filepath.Join(variationsOut, v.Pattern.ID+".png")
			if err := os.WriteFile(path, final.Image, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Printf("  saved %s\n", path)
		}
	}

	summary, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	summaryPath := filepath.Join(variationsOut, "variations.json")
	if err := os.WriteFile(summaryPath, summary, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", summaryPath, err)
	}
	fmt.Printf("  saved %s\n", summaryPath)
	return nil
}

func printVariation(v variations.Variation) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("%s (%s)\n", v.Pattern.Name, v.Pattern.ID)

	if v.Err != "" {
		red := color.New(color.FgRed)
		_, _ = red.Printf("  failed: %s\n", v.Err)
		return
	}
	if v.Report == nil {
		return
	}

	attempts := len(v.Report.Attempts)
	switch {
	case v.Report.State == models.StateAccepted:
		green := color.New(color.FgGreen)
		_, _ = green.Printf("  accepted after %d attempt(s)\n", attempts)
	case v.Report.BestEffort:
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Printf("  budget exhausted after %d attempt(s), best effort\n", attempts)
	}
}
