package command

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookshelf/cmd/cli/authentication"
	"bookshelf/cmd/cli/command/client"
	"bookshelf/internal/microservices/http-api/dto"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Register, log in and log out. Tokens are kept in the system keyring.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Email, _ = cmd.Flags().GetString("email")

		ctx, cancel := commandContext(cmd)
		defer cancel()
		resp, err := client.NewHTTPClient(apiURL).Register(ctx, req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		if err := saveSession(resp); err != nil {
			return err
		}
		success("Registered and logged in as %s", resp.Username)
		fmt.Printf("UserID: %s\n", resp.UserID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()
		resp, err := client.NewHTTPClient(apiURL).Login(ctx, req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if err := saveSession(resp); err != nil {
			return err
		}
		success("Logged in as %s", resp.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens(apiURL)
		if err != nil {
			return err
		}
		err = withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			return c.Logout(ctx, creds.RefreshToken)
		})
		// the local copy goes even if the server could not be reached
		if derr := authentication.DeleteTokens(apiURL); derr != nil {
			return derr
		}
		if err != nil {
			return fmt.Errorf("logged out locally, server logout failed: %w", err)
		}
		success("Logged out")
		return nil
	},
}

var deleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Delete your account with all your books and ratings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this removes your books and ratings, pass --yes to confirm")
		}
		err := withAuth(cmd, func(ctx context.Context, c *client.HTTPClient) error {
			return c.DeleteAccount(ctx)
		})
		if err != nil {
			return err
		}
		if err := authentication.DeleteTokens(apiURL); err != nil {
			return err
		}
		success("Account deleted")
		return nil
	},
}

func saveSession(resp *dto.AuthResponse) error {
	return authentication.StoreTokens(apiURL, &authentication.StoredCredentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		Username:     resp.Username,
		ExpiresAt:    time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
	})
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd, deleteAccountCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address (optional)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	deleteAccountCmd.Flags().Bool("yes", false, "confirm the deletion")
}
