package domain

import (
	"fmt"
	"strings"
)

// Platform is the operating system family an audit runs against. It is
// computed once per audit and passed explicitly to the registry and probes.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// ValidPlatforms enumerates the platforms with diagnostic support.
var ValidPlatforms = []Platform{PlatformLinux, PlatformDarwin, PlatformWindows}

// DetectPlatform maps a GOOS value to a Platform.
func DetectPlatform(goos string) Platform {
	switch goos {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// ParsePlatform accepts a platform name and a few common aliases.
func ParsePlatform(name string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linux":
		return PlatformLinux, nil
	case "darwin", "macos", "mac":
		return PlatformDarwin, nil
	case "windows", "win":
		return PlatformWindows, nil
	case "unknown":
		return PlatformUnknown, nil
	default:
		valid := make([]string, len(ValidPlatforms))
		for i, p := range ValidPlatforms {
			valid[i] = string(p)
		}
		return "", fmt.Errorf("unknown platform %q (valid: %s)", name, strings.Join(valid, ", "))
	}
}
