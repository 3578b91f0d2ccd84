//go:build !windows

package platform

// parentProcessName is a Windows-only signal. Unix detection relies on
// environment markers, which the launching shell sets reliably.
func parentProcessName() string { return "" }
