package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/codedeck/internal/app"
	"github.com/Rorical/codedeck/internal/config"
	"github.com/Rorical/codedeck/internal/logging"
)

var (
	profileFlag  string
	baseURLFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "codedeck",
	Short: "Terminal workbench for a code-assistant backend",
	Long: `codedeck browses, searches, tests and analyzes a project served by a
code-assistant backend, and chats about the open file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevelFlag == "" {
			return
		}
		if err := logging.SetLevel(logLevelFlag); err != nil {
			log.Fatalf("%v", err)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		runApplication(loadConfig())
	},
}

// loadConfig loads the saved profiles and applies the per-run flags.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if profileFlag != "" {
		if err := cfg.Use(profileFlag); err != nil {
			log.Fatalf("%v", err)
		}
	}
	cfg.OverrideBaseURL(baseURLFlag)
	return cfg
}

func runApplication(cfg *config.Config) {
	application, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "profile to use for this run")
	rootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "backend URL, overrides the profile")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(profileCmd)
}
