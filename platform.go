package unarchive

import (
	"fmt"
	"runtime"
	"sync"
)

// Profile identifies a host platform for which a native unrar binary is
// bundled. The set of profiles is closed; everything else is
// ProfileUnsupported.
type Profile int

const (
	ProfileUnsupported Profile = iota
	ProfileWindowsAmd64
	ProfileDarwinAmd64
	ProfileDarwinArm64
)

// String returns the resource directory name for the profile.
func (p Profile) String() string {
	switch p {
	case ProfileWindowsAmd64:
		return "windows-amd64"
	case ProfileDarwinAmd64:
		return "darwin-amd64"
	case ProfileDarwinArm64:
		return "darwin-arm64"
	default:
		return "unsupported"
	}
}

// Supported returns true if a native binary is bundled for the profile.
func (p Profile) Supported() bool {
	return p != ProfileUnsupported
}

// binaryName returns the file name of the bundled unrar binary.
func (p Profile) binaryName() string {
	if p == ProfileWindowsAmd64 {
		return "unrar.exe"
	}
	return "unrar"
}

// resourceKey returns the path of the bundled binary within the embedded
// resources, or "" for unsupported profiles.
func (p Profile) resourceKey() string {
	if !p.Supported() {
		return ""
	}
	return fmt.Sprintf("binaries/%s/%s", p, p.binaryName())
}

// Platform describes the host the process runs on and the profile it maps to.
type Platform struct {
	OS      string
	Arch    string
	Profile Profile
}

// String returns a string representation of the platform.
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s (%s)", p.OS, p.Arch, p.Profile)
}

// hostPlatform caches the detection result for the process lifetime.
var hostPlatform = sync.OnceValue(func() Platform {
	return detectPlatform(runtime.GOOS, runtime.GOARCH)
})

// DetectPlatform returns the platform of the running process. The result is
// computed once and reused.
func DetectPlatform() Platform {
	return hostPlatform()
}

// detectPlatform maps an os and architecture to a profile.
func detectPlatform(goos, goarch string) Platform {
	p := Platform{OS: goos, Arch: goarch, Profile: ProfileUnsupported}

	switch goos {
	case "windows":
		if goarch == "amd64" {
			p.Profile = ProfileWindowsAmd64
		}
	case "darwin":
		switch goarch {
		case "amd64":
			p.Profile = ProfileDarwinAmd64
		case "arm64":
			p.Profile = ProfileDarwinArm64
		}
	}

	return p
}
