package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	cmd.AddCommand(newUserSignUpCmd())
	cmd.AddCommand(newUserUpdateCmd())

	return cmd
}

func newUserSignUpCmd() *cobra.Command {
	var name, messagingToken string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a user and store its credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			if messagingToken != "" {
				req["messaging_token"] = messagingToken
			}
			var result SignUpResult

			if err := client.Post("/api/v1/users", req, &result); err != nil {
				return err
			}

			// Save credentials; the token is never shown again
			if err := cfg.SaveCredentials(result.User.ID, result.AuthToken); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&messagingToken, "messaging-token", "", "Device messaging token")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserUpdateCmd() *cobra.Command {
	var name, messagingToken string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the current user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && messagingToken == "" {
				return fmt.Errorf("nothing to update: pass --name or --messaging-token")
			}
			if cfg.UserID == "" {
				return fmt.Errorf("no user id configured: sign up first or pass --user-id")
			}

			req := map[string]string{}
			if name != "" {
				req["name"] = name
			}
			if messagingToken != "" {
				req["messaging_token"] = messagingToken
			}
			var result User

			if err := client.Patch("/api/v1/users/"+cfg.UserID, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&messagingToken, "messaging-token", "", "New device messaging token")

	return cmd
}
