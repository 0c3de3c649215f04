package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"deliverylog/internal/domain/delivery"
)

var (
	editName        string
	editDescription string
	editPhotoFile   string
	editUseCamera   bool
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing delivery",
	Long: `Edit an existing delivery, pre-filled with its stored values. Retaking
the photo also re-stamps the date and re-acquires the location; fields left
empty keep their current value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := application.NewCaptureSession(cmd.Context(), warnf)
		defer sess.Close()

		if err := sess.StartEdit(args[0]); err != nil {
			if errors.Is(err, delivery.ErrNotFound) {
				return fmt.Errorf("delivery %s not found", args[0])
			}
			return err
		}

		name := editName
		if name == "" && interactive() {
			name = promptLineDefault("Name", sess.Name())
		}
		if name != "" {
			sess.SetName(name)
		}

		description := editDescription
		if description == "" && interactive() {
			description = promptLineDefault("Description", sess.Description())
		}
		if description != "" {
			sess.SetDescription(description)
		}

		retake := editPhotoFile != "" || editUseCamera
		if !retake && interactive() {
			retake = confirm("Retake photo?")
		}
		if retake {
			if err := acquirePhoto(sess, editPhotoFile, editUseCamera); err != nil {
				return err
			}
		}

		return finishSave(sess, "Delivery updated!")
	},
}

func init() {
	editCmd.Flags().StringVarP(&editName, "name", "n", "", "new delivery name")
	editCmd.Flags().StringVar(&editDescription, "desc", "", "new delivery description")
	editCmd.Flags().StringVar(&editPhotoFile, "photo", "", "replace the photo with an image file")
	editCmd.Flags().BoolVar(&editUseCamera, "camera", false, "retake the photo with the capture command")

	rootCmd.AddCommand(editCmd)
}
