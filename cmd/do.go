package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rorical/codedeck/internal/app"
	"github.com/Rorical/codedeck/internal/core"
)

var doFileFlag string

var doCmd = &cobra.Command{
	Use:   "do <action> [input...]",
	Short: "Run a single action without the workbench",
	Long: fmt.Sprintf(`Run one action against the backend and print its log entries.

The input answers the action's prompt (search keyword, test path, commit
message, upload paths, chat message). --file loads a backend file first for
actions that work on the open file.

Actions: %s`, strings.Join(core.Actions, ", ")),
	Args:         cobra.MinimumNArgs(1),
	ValidArgs:    core.Actions,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		h := app.NewHeadless(cfg, cmd.OutOrStdout())
		defer h.Close()

		if !h.Run(ctx, args[0], strings.Join(args[1:], " "), doFileFlag) {
			return fmt.Errorf("%s did not complete", args[0])
		}
		return nil
	},
}

func init() {
	doCmd.Flags().StringVarP(&doFileFlag, "file", "f", "", "backend path to load before running")
	rootCmd.AddCommand(doCmd)
}
