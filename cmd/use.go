package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and start codedeck",
	Long:  `Make the named profile active, save it, and open the workbench against it.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if err := cfg.Use(args[0]); err != nil {
			log.Fatalf("%v", err)
		}
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		// --base-url still wins for this run.
		cfg.OverrideBaseURL(baseURLFlag)
		runApplication(cfg)
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
