// Package screengrab implements the ScreenGrab capture backend of
// spec.md §1: capture the whole display and crop to the selected
// window's content rectangle. Safe for hardware-accelerated (DirectX)
// surfaces, at the cost of leaking any window that occludes the target
// — which is why CroppingCoordinator only dispatches here when
// OcclusionScanner reports the window is unoccluded.
package screengrab

import "github.com/kirides/wincrop/capture"

// Grab is the ScreenGrab backend. The Windows-backed implementation
// lives in screengrab_windows.go, adapted from the teacher's
// native_windows.go BitBlt/GetDIBits pipeline.
type Grab struct {
	Inspector capture.WindowInspector
	handle    capture.WindowHandle
}

// New builds a ScreenGrab backend bound to the given window inspector.
func New(inspector capture.WindowInspector) *Grab {
	return &Grab{Inspector: inspector}
}

func (g *Grab) Start() error { return nil }

func (g *Grab) SelectSource(hwnd capture.WindowHandle) error {
	g.handle = hwnd
	return nil
}

func (g *Grab) Name() string { return "screengrab" }

// effectiveRect resolves the rectangle to capture for the current
// frame: the content rect intersected with a simple clip region, the
// same reduction CaptureBackendSelector performs in
// should_use_screen_capturer (spec.md §4.6, P4).
func (g *Grab) effectiveRect() (capture.Rect, bool) {
	rect, ok := g.Inspector.ContentRect(g.handle)
	if !ok {
		return capture.Rect{}, false
	}
	region := g.Inspector.WindowRegion(g.handle)
	if region.Kind == capture.RegionComplex {
		return capture.Rect{}, false
	}
	if region.Kind == capture.RegionSimple {
		if windowRect, ok := g.Inspector.WindowRect(g.handle); ok {
			rect = rect.Intersect(region.Box.Translate(windowRect.Left, windowRect.Top))
		}
	}
	return rect, !rect.IsEmpty()
}
