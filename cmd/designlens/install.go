package designlens

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamilpajak/designlens/internal/screenshot"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the browsers required for page capture",
	RunE: func(cmd *cobra.Command, args []string) error {
		if screenshot.IsAvailable() {
			fmt.Println("Browsers already installed.")
			return nil
		}
		fmt.Println("Installing browsers...")
		if err := screenshot.Install(); err != nil {
			return fmt.Errorf("browser install failed: %w", err)
		}
		fmt.Println("Done.")
		return nil
	},
}
