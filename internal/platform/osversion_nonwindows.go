//go:build !windows

package platform

func windowsVersionNumbers() (major, minor, build uint32) { return 0, 0, 0 }
