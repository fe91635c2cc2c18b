package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/klappstuhl/stalmail/internal/outfmt"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the account for changes",
		Long: `Watch the account and print a line whenever server state changes.
Detection works by polling the session state, so one line may cover
several changes that happened between polls. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			jsonOut := app.IsJSON(cmd.Context())
			svc.StartPolling(ctx, func(ev jmap.ChangeEvent) {
				if jsonOut {
					_ = outfmt.PrintJSON(map[string]any{
						"event":   ev.ID,
						"changed": changedTypes(ev),
						"time":    time.Now().UTC().Format(time.RFC3339),
					})
					return
				}
				fmt.Printf("%s changed: %s\n",
					time.Now().Format("15:04:05"), joinChanged(ev))
			}, interval)
			defer svc.StopPolling()

			if !jsonOut {
				fmt.Fprintf(os.Stderr, "Watching for changes every %s. Press Ctrl-C to stop.\n", interval)
			}

			<-ctx.Done()
			return nil
		}),
	}

	cmd.Flags().DurationVar(&interval, "interval", jmap.DefaultPollInterval, "Poll interval")
	return cmd
}

func changedTypes(ev jmap.ChangeEvent) []string {
	types := make([]string, 0, len(ev.Changed))
	for t := range ev.Changed {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func joinChanged(ev jmap.ChangeEvent) string {
	out := ""
	for _, t := range changedTypes(ev) {
		if out != "" {
			out += ", "
		}
		out += t
	}
	return out
}
