package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"deliverylog/internal/domain/delivery"
)

var showSavePhoto string

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single delivery",
	Long: `Show every field of one delivery. With --save-photo the delivery's
photo is exported to the given file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := application.Deliveries.Get(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, delivery.ErrNotFound) {
				return fmt.Errorf("delivery %s not found", args[0])
			}
			return err
		}

		color.New(color.Bold).Println(rec.Name)
		if rec.Description != "" {
			fmt.Println(rec.Description)
		}
		fmt.Println()
		fmt.Printf("ID:        %s\n", rec.ID)
		fmt.Printf("Date:      %s\n", rec.Date.Format("2006-01-02 15:04:05"))
		fmt.Printf("Location:  %.6f, %.6f\n", rec.Latitude, rec.Longitude)

		if rec.PhotoPath == "" {
			fmt.Println("Photo:     none")
		} else if _, err := application.Deliveries.Photo(rec); err != nil {
			fmt.Println("Photo:     unavailable")
			log.Debug("photo unreadable", "id", rec.ID, "path", rec.PhotoPath, "error", err)
		} else {
			fmt.Printf("Photo:     %s\n", rec.PhotoPath)
		}

		if showSavePhoto != "" {
			return exportPhoto(rec, showSavePhoto)
		}
		return nil
	},
}

func exportPhoto(rec *delivery.Delivery, dest string) error {
	if rec.PhotoPath == "" {
		return errors.New("delivery has no photo to export")
	}
	data, err := application.Photos.ReadPhotoRaw(rec.PhotoPath)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}
	color.Green("Photo saved to %s", dest)
	return nil
}

func init() {
	showCmd.Flags().StringVar(&showSavePhoto, "save-photo", "", "export the delivery's photo to a file")

	rootCmd.AddCommand(showCmd)
}
