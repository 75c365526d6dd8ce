package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Account management commands",
	}

	authCmd.AddCommand(newAuthRegisterCmd())
	authCmd.AddCommand(newAuthLoginCmd())
	authCmd.AddCommand(newAuthMeCmd())

	return authCmd
}

func newAuthRegisterCmd() *cobra.Command {
	var password string
	var displayName string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)
			username := args[0]

			if displayName == "" {
				displayName = username
			}

			req := map[string]string{
				"username":     username,
				"password":     password,
				"display_name": displayName,
			}

			var result AuthResult
			if err := client.Post("/api/v1/auth/register", req, &result); err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				out.PrintError(fmt.Errorf("account created but token not saved: %w", err))
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (required)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name (defaults to username)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the auth token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			req := map[string]string{
				"username": args[0],
				"password": password,
			}

			var result AuthResult
			if err := client.Post("/api/v1/auth/login", req, &result); err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.Token); err != nil {
				out.PrintError(fmt.Errorf("logged in but token not saved: %w", err))
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (required)")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newAuthMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the currently authenticated player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Player
			if err := client.Get("/api/v1/players/me", &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
