package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deliverylog/internal/domain/delivery"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a delivery",
	Long: `Delete a delivery and its stored photo. Asks for confirmation unless
--yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := application.Deliveries.Get(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, delivery.ErrNotFound) {
				return fmt.Errorf("delivery %s not found", args[0])
			}
			return err
		}

		if !deleteYes {
			if !interactive() {
				return errors.New("refusing to delete without --yes in non-interactive mode")
			}
			fmt.Printf("Delivery: %s (%s)\n", rec.Name, rec.Date.Format("2006-01-02 15:04"))
			if !confirm("Are you sure you want to delete this delivery?") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := application.Deliveries.Delete(cmd.Context(), rec.ID); err != nil {
			return err
		}

		color.Green("Delivery deleted")
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without confirmation")

	rootCmd.AddCommand(deleteCmd)
}
