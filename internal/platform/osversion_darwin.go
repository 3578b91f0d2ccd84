//go:build darwin

package platform

import (
	"os"
	"regexp"
)

var productVersionRe = regexp.MustCompile(`<key>ProductVersion</key>\s*<string>([0-9.]+)</string>`)

// osVersion returns the macOS product version (e.g. "14.5"). It reads the
// system version plist directly rather than spawning sw_vers on every
// detection snapshot.
func osVersion() string {
	data, err := os.ReadFile("/System/Library/CoreServices/SystemVersion.plist")
	if err != nil {
		return ""
	}
	if m := productVersionRe.FindSubmatch(data); m != nil {
		return string(m[1])
	}
	return ""
}
