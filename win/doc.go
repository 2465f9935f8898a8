// Package win holds the Win32 surface this module needs beyond what
// github.com/lxn/win already exports: window enumeration, inspection and
// desktop-composition queries used by the occlusion and capture-backend
// selection logic in package capture.
//
// There are no //sys directives: every function is a hand-written
// wrapper in the shape mkwinsyscall would generate, calling a lazily
// loaded system DLL through golang.org/x/sys/windows, one *_windows.go
// file per DLL. This module does not run `go generate`.
package win
