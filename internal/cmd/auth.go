package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/klappstuhl/stalmail/internal/config"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/klappstuhl/stalmail/internal/logging"
	"github.com/klappstuhl/stalmail/internal/ui"
)

const credentialWarningAge = 90 * 24 * time.Hour // 90 days

// checkCredentialAge returns a warning message if credentials are older than 90 days
func checkCredentialAge(created time.Time) string {
	if created.IsZero() {
		return ""
	}
	age := time.Since(created)
	if age > credentialWarningAge {
		days := int(age.Hours() / 24)
		return fmt.Sprintf("Warning: credentials are %d days old, consider rotating", days)
	}
	return ""
}

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication and account management",
		Long:  `Manage server logins stored in the OS keychain.`,
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			// Desire path: `stalmail auth` shows where you stand.
			return runAuthStatus(cmd, app)
		}),
	}

	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	cmd.AddCommand(newAuthListCmd(app))
	cmd.AddCommand(newAuthUseCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))

	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var server, username, account, passwordFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a JMAP server (prompts for password)",
		Long: `Verifies Basic-auth credentials against the server's JMAP session
endpoint and stores the login in the OS keychain.`,
		Args: cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			server = strings.TrimSpace(server)
			username = strings.TrimSpace(username)
			if server == "" {
				return fmt.Errorf("server URL is required (--server)")
			}
			if username == "" {
				return fmt.Errorf("username is required (--username)")
			}
			if account == "" {
				account = username
			}

			var password string
			if passwordFlag != "" {
				// Security warning: --password exposes the secret in shell history and process listings
				fmt.Fprintln(os.Stderr, "Warning: Using --password exposes your password in shell history and process listings.")
				fmt.Fprintln(os.Stderr, "Consider the STALMAIL_PASSWORD environment variable or the interactive prompt instead.")
				password = passwordFlag
			} else if envPassword := os.Getenv("STALMAIL_PASSWORD"); envPassword != "" {
				password = envPassword
			} else {
				fmt.Fprintf(os.Stderr, "Enter password for %s: ", username)
				passwordBytes, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // required for Windows where Stdin is uintptr
				fmt.Fprintln(os.Stderr)                                     // newline after password input
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = string(passwordBytes)
			}
			if password == "" {
				return fmt.Errorf("password cannot be empty")
			}

			// Verify the credentials against the server before storing them.
			client := jmap.NewClient()
			session, err := client.Authenticate(cmd.Context(), username, password, server)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			defer client.Logout()

			if err := config.SaveLogin(account, server, username, password); err != nil {
				return fmt.Errorf("failed to save login: %w", err)
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"saved":     true,
					"account":   account,
					"server":    server,
					"accountId": session.AccountID,
				})
			}

			u := ui.FromContext(cmd.Context())
			u.Success(fmt.Sprintf("Logged in to %s as %s", server, username))
			fmt.Fprintf(os.Stderr, "Try: stalmail --account %s email list --limit 5\n", account)
			return nil
		}),
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL, e.g. https://mail.example.com")
	cmd.Flags().StringVar(&username, "username", "", "Login username")
	cmd.Flags().StringVar(&account, "name", "", "Local account name (defaults to the username)")
	cmd.Flags().StringVar(&passwordFlag, "password", "", "Password (deprecated: use STALMAIL_PASSWORD env var instead)")

	return cmd
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout <account>",
		Short: "Remove a stored login",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			account := strings.TrimSpace(args[0])
			if account == "" {
				return fmt.Errorf("account name cannot be empty")
			}

			if err := config.DeleteLogin(account); err != nil {
				if err == keyring.ErrKeyNotFound {
					return fmt.Errorf("account not found: %s", account)
				}
				return fmt.Errorf("failed to remove login: %w", err)
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"deleted": true,
					"account": account,
				})
			}

			fmt.Fprintf(os.Stderr, "Removed login: %s\n", account)
			return nil
		}),
	}
}

func newAuthListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			logins, err := config.ListLogins()
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if len(logins) == 0 {
				if app.IsJSON(cmd.Context()) {
					return app.PrintJSON(cmd, []string{})
				}
				printNoResults("No accounts configured")
				return nil
			}

			sort.Slice(logins, func(i, j int) bool {
				return logins[i].Account < logins[j].Account
			})

			if app.IsJSON(cmd.Context()) {
				type account struct {
					Account   string `json:"account"`
					Server    string `json:"server"`
					Username  string `json:"username"`
					Primary   bool   `json:"primary,omitempty"`
					CreatedAt string `json:"created_at,omitempty"`
				}
				accounts := make([]account, len(logins))
				for i, l := range logins {
					createdAt := ""
					if !l.CreatedAt.IsZero() {
						createdAt = l.CreatedAt.UTC().Format(time.RFC3339)
					}
					accounts[i] = account{
						Account:   l.Account,
						Server:    l.Server,
						Username:  l.Username,
						Primary:   l.IsPrimary,
						CreatedAt: createdAt,
					}
				}
				return app.PrintJSON(cmd, accounts)
			}

			tw := newTabWriter()
			fmt.Fprintln(tw, "ACCOUNT\tSERVER\tUSERNAME\tPRIMARY")
			for _, l := range logins {
				primary := ""
				if l.IsPrimary {
					primary = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Account, l.Server, l.Username, primary)
			}
			tw.Flush()
			return nil
		}),
	}
}

func newAuthUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <account>",
		Short: "Set the primary account",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			account := strings.TrimSpace(args[0])
			if err := config.SetPrimaryAccount(account); err != nil {
				return err
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"primary": account,
				})
			}

			fmt.Fprintf(os.Stderr, "Primary account set to %s\n", account)
			return nil
		}),
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active account and server session",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			return runAuthStatus(cmd, app)
		}),
	}
}

func runAuthStatus(cmd *cobra.Command, app *App) error {
	logger := logging.FromContext(cmd.Context())
	logger.Debug("auth status command started")

	account, err := app.RequireAccount()
	if err != nil {
		return err
	}

	login, err := config.GetLogin(account)
	if err != nil {
		return fmt.Errorf("failed to get login for %s: %w", account, err)
	}

	client := jmap.NewClient()
	session, err := client.Authenticate(cmd.Context(), login.Username, login.Password, login.Server)
	if err != nil {
		return err
	}
	defer client.Logout()

	if app.IsJSON(cmd.Context()) {
		payload := map[string]any{
			"account":      account,
			"server":       login.Server,
			"username":     login.Username,
			"accountId":    session.AccountID,
			"apiUrl":       session.APIURL,
			"uploadUrl":    session.UploadURL,
			"downloadUrl":  session.DownloadURL,
			"websocketUrl": session.WebSocketURL,
		}
		return app.PrintJSON(cmd, payload)
	}

	u := ui.FromContext(cmd.Context())
	u.Success(fmt.Sprintf("Authenticated as %s on %s", login.Username, login.Server))
	fmt.Printf("Account:    %s\n", account)
	fmt.Printf("Account ID: %s\n", session.AccountID)
	fmt.Printf("API URL:    %s\n", session.APIURL)
	if session.WebSocketURL != "" {
		// Advertised by the server; change detection still uses polling.
		fmt.Printf("WebSocket:  %s\n", session.WebSocketURL)
	}
	if warning := checkCredentialAge(login.CreatedAt); warning != "" {
		u.Warning(warning)
	}
	return nil
}
