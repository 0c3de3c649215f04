package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"deliverylog/internal/capture"
	"deliverylog/internal/device"
)

// warnf surfaces a capture-session warning without interrupting the flow.
func warnf(msg string) {
	color.Yellow(msg)
}

// acquirePhoto picks the photo source from flags or an interactive choice
// and runs the capture. Skipping is allowed here; the save validation is
// what insists on a photo.
func acquirePhoto(sess *capture.Session, photoFile string, useCamera bool) error {
	var req device.CaptureRequest

	switch {
	case photoFile != "":
		req = device.CaptureRequest{Source: device.SourceGallery, GalleryPath: photoFile}
	case useCamera:
		req = device.CaptureRequest{Source: device.SourceCamera}
	case interactive():
		switch strings.ToLower(promptLine("Photo source: [c]amera, [g]allery file, [s]kip")) {
		case "c", "camera":
			req = device.CaptureRequest{Source: device.SourceCamera}
		case "g", "gallery":
			req = device.CaptureRequest{
				Source:      device.SourceGallery,
				GalleryPath: promptLine("Image file path"),
			}
		default:
			return nil
		}
	default:
		return nil
	}

	err := sess.TakePhoto(req)
	switch {
	case err == nil:
		fmt.Println("Photo captured.")
		return nil
	case errors.Is(err, device.ErrCaptureCanceled):
		// The user backed out; nothing changed, nothing to report.
		return nil
	case errors.Is(err, capture.ErrCameraPermission):
		color.Yellow("Could not take photo. Please check camera permissions.")
		return errSilent
	default:
		log.Error("photo capture failed", "error", err)
		color.Red("Could not take photo. Please check camera permissions.")
		return errSilent
	}
}

// finishSave persists the session and reports the outcome. Validation
// failures are warnings; the record store is never reached for them.
func finishSave(sess *capture.Session, successMsg string) error {
	record, err := sess.Save()
	if err != nil {
		var verr *capture.ValidationError
		if errors.As(err, &verr) {
			color.Yellow(verr.Message)
			return errSilent
		}
		log.Error("save failed", "error", err)
		color.Red("Error saving delivery")
		return errSilent
	}

	color.Green(successMsg)
	fmt.Printf("ID: %s\n", record.ID)
	return nil
}
