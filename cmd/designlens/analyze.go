package designlens

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kamilpajak/designlens/internal/analyzer"
	"github.com/kamilpajak/designlens/internal/config"
	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/logging"
	"github.com/kamilpajak/designlens/internal/screenshot"
	"github.com/kamilpajak/designlens/pkg/models"
)

var (
	analyzeJSON           bool
	analyzeSingleStage    bool
	analyzeNoSegments     bool
	analyzeSkipValidation bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Extract the design system of a web page",
	Long: `Capture a page and extract its design system into a structured
document: typography, color, layout, components and imagery.

Examples:
  designlens analyze https://example.com
  designlens analyze https://example.com --json > design.json
  designlens analyze https://example.com --single-stage --no-segments`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output the document as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSingleStage, "single-stage", false, "Use one full-schema call instead of focused groups")
	analyzeCmd.Flags().BoolVar(&analyzeNoSegments, "no-segments", false, "Skip scroll-segment capture and analysis")
	analyzeCmd.Flags().BoolVar(&analyzeSkipValidation, "skip-validation", false, "Skip the validation pass")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.Init(cfg.Debug)

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	capture, err := capturePage(url, cfg, !analyzeNoSegments)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	emitter := &llm.TextEmitter{W: os.Stderr}
	a := analyzer.New(client, emitter, cfg.MaxRetries)

	start := time.Now()
	doc, err := a.Run(context.Background(), analyzer.Params{
		URL:            url,
		Screenshot:     capture.FullPage,
		Segments:       capture.Segments,
		SingleStage:    analyzeSingleStage,
		SkipValidation: analyzeSkipValidation,
	})
	if err != nil {
		if doc == nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Warning: analysis interrupted, document is partial: %v\n", err)
	}
	fmt.Fprintf(os.Stderr, "Analysis complete (%.1fs)\n\n", time.Since(start).Seconds())

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	printDocument(doc)
	return nil
}

// capturePage renders the target with a spinner on interactive terminals.
func capturePage(url string, cfg *config.Config, segments bool) (*screenshot.Capture, error) {
	s := newSpinner("Capturing " + url)
	defer s.Stop()

	opts := screenshot.Options{
		Width:     cfg.ScreenshotWidth,
		Height:    cfg.ScreenshotHeight,
		TimeoutMS: float64(cfg.ScreenshotTimeout),
	}
	if !segments {
		full, err := screenshot.CaptureURL(url, opts)
		if err != nil {
			return nil, err
		}
		return &screenshot.Capture{FullPage: full}, nil
	}
	return screenshot.CaptureWithSegments(url, opts)
}

func newSpinner(msg string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	if isatty.IsTerminal(os.Stderr.Fd()) {
		s.Start()
	}
	return s
}

func printDocument(doc *models.Document) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	_, _ = bold.Printf("Design system: %s\n", doc.URL)
	if doc.Incomplete {
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Println("(partial: analysis did not complete)")
	}
	fmt.Println()

	group := ""
	resolved := 0
	for _, r := range doc.Results {
		cat := categoryFor(doc, r.CategoryID)
		if cat != nil && cat.Group != group {
			group = cat.Group
			_, _ = bold.Printf("%s\n", strings.ToUpper(group))
		}

		label := r.CategoryID
		if cat != nil {
			label = cat.Label
		}
		fmt.Printf("  %-28s ", label)
		statusColor(r.Status).Printf("[%s]", r.Status)
		fmt.Println()

		switch r.Status {
		case models.StatusOK:
			resolved++
			fmt.Printf("    %s\n", payloadText(r.Payload))
		case models.StatusError:
			if r.Diagnostic != "" {
				_, _ = dim.Printf("    %s\n", r.Diagnostic)
			}
		}
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Resolved %d of %d categories\n", resolved, len(doc.Results))
}

func categoryFor(doc *models.Document, id string) *models.Category {
	for i := range doc.Categories {
		if doc.Categories[i].ID == id {
			return &doc.Categories[i]
		}
	}
	return nil
}

func statusColor(status models.CategoryStatus) *color.Color {
	switch status {
	case models.StatusOK:
		return color.New(color.FgGreen)
	case models.StatusError:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

// payloadText renders a category payload for terminal output, one line,
// truncated unless debug logging is on.
func payloadText(payload json.RawMessage) string {
	max := 200
	if logging.DebugEnabled() {
		max = len(payload) + 1
	}
	var asString string
	if err := json.Unmarshal(payload, &asString); err == nil {
		return truncate(asString, max)
	}
	return truncate(string(payload), max)
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
