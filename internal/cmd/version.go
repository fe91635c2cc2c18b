package cmd

import (
	"fmt"

	"github.com/klappstuhl/stalmail/internal/update"
	"github.com/spf13/cobra"
)

func newVersionCmd(app *App) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			out := map[string]any{
				"version": Version,
				"commit":  Commit,
				"date":    Date,
			}

			var result *update.CheckResult
			if check {
				result = update.CheckForUpdate(cmd.Context(), Version)
			}

			if app.IsJSON(cmd.Context()) {
				if result != nil {
					out["latestVersion"] = result.LatestVersion
					out["updateAvailable"] = result.UpdateAvailable
					if result.UpdateAvailable {
						out["updateUrl"] = result.UpdateURL
					}
				}
				return app.PrintJSON(cmd, out)
			}

			fmt.Printf("stalmail %s (commit %s, built %s)\n", Version, Commit, Date)
			if check {
				switch {
				case result == nil:
					fmt.Println("Update check skipped or unavailable")
				case result.UpdateAvailable:
					fmt.Printf("Update available: %s (%s)\n", result.LatestVersion, result.UpdateURL)
				default:
					fmt.Println("You are on the latest version")
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer release")
	return cmd
}
