package designlens

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/quality"
	"github.com/kamilpajak/designlens/internal/variations"
	"github.com/kamilpajak/designlens/pkg/models"
)

var (
	stylizeStyle string
	stylizeOut   string
)

var stylizeCmd = &cobra.Command{
	Use:   "stylize <url>",
	Short: "Restyle a page screenshot with an aesthetic preset",
	Long: `Capture a page and regenerate it in a different aesthetic while
keeping structure and content recognizable. Run without --style to list
the available presets.

Examples:
  designlens stylize https://example.com --style Glassmorphism
  designlens stylize https://example.com --style "Dark Luxury" -o dark.png`,
	Args: cobra.ExactArgs(1),
	RunE: runStylize,
}

func init() {
	stylizeCmd.Flags().StringVarP(&stylizeStyle, "style", "s", "", "Style preset name")
	stylizeCmd.Flags().StringVarP(&stylizeOut, "out", "o", "stylized.png", "Output image path")
}

func runStylize(cmd *cobra.Command, args []string) error {
	if stylizeStyle == "" {
		fmt.Println("Available style presets:")
		for _, name := range variations.PresetNames() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}

	preset := variations.PresetByName(stylizeStyle)
	if preset == nil {
		return fmt.Errorf("unknown style %q, known styles: %s", stylizeStyle, strings.Join(variations.PresetNames(), ", "))
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

	capture, err := capturePage(args[0], cfg, false)
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	emitter := &llm.TextEmitter{W: os.Stderr}
	g := variations.New(client, quality.New(client), cfg.AttemptBudget, emitter)

	report, err := g.Stylize(context.Background(), capture.FullPage, *preset)
	if err != nil {
		return fmt.Errorf("stylize failed: %w", err)
	}

	final := report.Final()
	if final == nil || final.Image == nil {
		return fmt.Errorf("no image produced")
	}
	if err := os.WriteFile(stylizeOut, final.Image, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", stylizeOut, err)
	}

	if report.State == models.StateAccepted {
		green := color.New(color.FgGreen)
		_, _ = green.Printf("Accepted after %d attempt(s)\n", len(report.Attempts))
	} else {
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Printf("Budget exhausted after %d attempt(s), surfacing best effort\n", len(report.Attempts))
	}
	fmt.Printf("Saved %s\n", stylizeOut)
	return nil
}
