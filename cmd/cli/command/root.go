package command

// root.go defines the root command of the bookshelf CLI and the helpers
// shared by its subcommands.

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bookshelf/cmd/cli/authentication"
	"bookshelf/cmd/cli/command/client"
)

var (
	apiURL  string // API server URL
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "bookshelf - command line client for the bookshelf API",
	Long: `bookshelf talks to a bookshelf API server. Use it to:
- register and log in
- manage genres, authors and books
- rate books
- download the report charts as PNG files

Use "bookshelf [command] --help" to see the options of each command.`,
	SilenceUsage: true,
}

// Execute runs the command tree. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("BOOKSHELF_API", "http://127.0.0.1:8080"), "API server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(authCmd, genreCmd, authorCmd, bookCmd, ratingCmd, reportCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func success(format string, args ...any) {
	color.Green("✓ "+format, args...)
}

// withAuth runs fn with a client carrying the stored access token. On a 401
// it refreshes the token once and retries.
func withAuth(cmd *cobra.Command, fn func(ctx context.Context, c *client.HTTPClient) error) error {
	creds, err := authentication.GetTokens(apiURL)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd)
	defer cancel()

	c := client.NewHTTPClient(apiURL)
	c.SetToken(creds.AccessToken)
	err = fn(ctx, c)
	if !client.IsUnauthorized(err) || creds.RefreshToken == "" {
		return err
	}

	refreshed, rerr := c.RefreshToken(ctx, creds.RefreshToken)
	if rerr != nil {
		return fmt.Errorf("session expired, log in again: %w", rerr)
	}
	creds.AccessToken = refreshed.AccessToken
	creds.ExpiresAt = time.Now().Add(time.Duration(refreshed.ExpiresIn) * time.Second).Unix()
	if err := authentication.StoreTokens(apiURL, creds); err != nil {
		return err
	}
	c.SetToken(creds.AccessToken)
	return fn(ctx, c)
}
