package designlens

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamilpajak/designlens/internal/config"
	"github.com/kamilpajak/designlens/internal/llm"
	"github.com/kamilpajak/designlens/internal/ratelimit"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "designlens",
	Short: "AI-powered design system analysis",
	Long: `Designlens captures a web page, extracts its design system with a
multimodal model, and generates quality-gated design variations.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(variationsCmd)
	rootCmd.AddCommand(stylizeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	return config.Load(), nil
}

func newClient(cfg *config.Config) (*llm.Client, error) {
	return llm.NewClient(llm.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		VisionModel: cfg.VisionModel,
		ImageModel:  cfg.ImageModel,
		CallTimeout: time.Duration(cfg.CallTimeout) * time.Second,
		Limiter:     ratelimit.New(cfg.RateLimit, cfg.RateBurst),
	})
}
