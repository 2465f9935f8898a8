// Package capture implements the cropping window capturer: a decision
// engine that chooses per frame between capturing the whole display and
// cropping to a window, or capturing the window directly, based on
// whether the window is currently the top-most thing on the desktop.
//
// The decision logic is platform-agnostic; the concrete Win32-backed
// WindowInspector lives in the sibling _windows.go files, and the pixel
// capture backends live in the screengrab, windowgrab and graphicsgrab
// subpackages.
package capture
