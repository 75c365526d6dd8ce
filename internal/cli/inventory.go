package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newInventoryCmd() *cobra.Command {
	invCmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory management commands",
	}

	invCmd.AddCommand(newInventoryListCmd())
	invCmd.AddCommand(newInventoryAddCmd())
	invCmd.AddCommand(newInventoryRemoveCmd())

	return invCmd
}

func newInventoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show your inventory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Inventory
			if err := client.Get("/api/v1/inventory", &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newInventoryAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <item-type> <quantity>",
		Short: "Add items to your inventory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				err = fmt.Errorf("invalid quantity %q: %w", args[1], err)
				out.PrintError(err)
				return err
			}

			req := map[string]any{
				"item_type": args[0],
				"quantity":  quantity,
			}

			if err := client.Post("/api/v1/inventory/items", req, nil); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage(fmt.Sprintf("Added %d x %s", quantity, args[0]))
			return nil
		},
	}
}

func newInventoryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-type> <quantity>",
		Short: "Remove items from your inventory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				err = fmt.Errorf("invalid quantity %q: %w", args[1], err)
				out.PrintError(err)
				return err
			}

			req := map[string]any{
				"item_type": args[0],
				"quantity":  quantity,
			}

			if err := client.Post("/api/v1/inventory/items/remove", req, nil); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage(fmt.Sprintf("Removed %d x %s", quantity, args[0]))
			return nil
		},
	}
}
