//go:build windows

package platform

import (
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// parentProcessName returns the executable name of this process's parent,
// lowercased, or "" when the lookup fails. The parent process is the closest
// proxy for the launching shell on Windows.
func parentProcessName() string {
	ppid := uint32(os.Getppid())

	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		if entry.ProcessID == ppid {
			return strings.ToLower(windows.UTF16ToString(entry.ExeFile[:]))
		}
	}
	return ""
}
