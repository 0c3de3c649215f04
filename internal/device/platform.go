// Package device wraps the host-side collaborators of the capture flow:
// platform identification, the camera/location permission gate, photo
// acquisition, and geolocation. Everything here is a thin adapter; real
// hardware access happens in configured external commands.
package device

import (
	"runtime"
)

// Platform identifies the host for the single place it matters: whether a
// permission model exists at all.
type Platform string

const (
	PlatformLinux  Platform = "linux"
	PlatformDarwin Platform = "darwin"
	// PlatformNone is a host without a permission model; every permission
	// check and request is granted.
	PlatformNone Platform = "none"
)

// DetectPlatform returns the platform from the configured override, falling
// back to the operating system.
func DetectPlatform(override string) Platform {
	if override != "" {
		return Platform(override)
	}
	switch runtime.GOOS {
	case "darwin":
		return PlatformDarwin
	case "linux":
		return PlatformLinux
	default:
		return PlatformNone
	}
}

// HasPermissionModel reports whether permissions need to be asked for on
// this platform.
func (p Platform) HasPermissionModel() bool {
	return p != PlatformNone
}
