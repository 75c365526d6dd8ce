package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFarmCmd() *cobra.Command {
	farmCmd := &cobra.Command{
		Use:   "farm",
		Short: "Farm management commands",
	}

	farmCmd.AddCommand(newFarmCreateCmd())
	farmCmd.AddCommand(newFarmListCmd())
	farmCmd.AddCommand(newFarmGetCmd())
	farmCmd.AddCommand(newFarmDeleteCmd())

	return farmCmd
}

func newFarmCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			req := map[string]string{"name": args[0]}

			var result Farm
			if err := client.Post("/api/v1/farms", req, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newFarmListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your farms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result FarmList
			if err := client.Get("/api/v1/farms", &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newFarmGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <farm-id>",
		Short: "Show a farm with its objects and present players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result FarmState
			if err := client.Get(fmt.Sprintf("/api/v1/farms/%s", args[0]), &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newFarmDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <farm-id>",
		Short: "Delete a farm you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if err := client.Delete(fmt.Sprintf("/api/v1/farms/%s", args[0])); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage(fmt.Sprintf("Farm %s deleted", args[0]))
			return nil
		},
	}
}
