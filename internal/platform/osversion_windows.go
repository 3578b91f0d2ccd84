//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func osVersion() string {
	major, minor, build := windowsVersionNumbers()
	if major == 0 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, build)
}

func windowsVersionNumbers() (major, minor, build uint32) {
	return windows.RtlGetNtVersionNumbers()
}
