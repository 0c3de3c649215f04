package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addName         string
	addDescription  string
	addPhotoFile    string
	addUseCamera    bool
	addSkipLocation bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new delivery",
	Long: `Record a new delivery: name, optional description, a photo from the
camera or an image file, plus the current time and GPS coordinate.

A name and a photo are required; everything else is optional.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess := application.NewCaptureSession(cmd.Context(), warnf)
		defer sess.Close()

		sess.StartNew()

		if !addSkipLocation {
			fmt.Println("Acquiring location...")
			sess.RefreshLocation()
		}

		name := addName
		if name == "" && interactive() {
			name = promptLine("Name")
		}
		sess.SetName(name)

		description := addDescription
		if description == "" && interactive() {
			description = promptLine("Description (optional)")
		}
		sess.SetDescription(description)

		if err := acquirePhoto(sess, addPhotoFile, addUseCamera); err != nil {
			return err
		}

		return finishSave(sess, "Delivery saved!")
	},
}

func init() {
	addCmd.Flags().StringVarP(&addName, "name", "n", "", "delivery name")
	addCmd.Flags().StringVar(&addDescription, "desc", "", "delivery description")
	addCmd.Flags().StringVar(&addPhotoFile, "photo", "", "import the photo from an image file")
	addCmd.Flags().BoolVar(&addUseCamera, "camera", false, "take the photo with the capture command")
	addCmd.Flags().BoolVar(&addSkipLocation, "no-location", false, "skip location acquisition")

	rootCmd.AddCommand(addCmd)
}
