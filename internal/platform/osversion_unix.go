//go:build !windows && !darwin

package platform

import "golang.org/x/sys/unix"

// osVersion returns the kernel release (e.g. "6.8.0-41-generic").
func osVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}
