// Package windowgrab implements the WindowGrab capture backend:
// capture the selected window directly via PrintWindow/BitBlt, so
// occluding foreign windows never appear in the frame. Cannot read
// hardware-accelerated surfaces, which is why CroppingCoordinator only
// falls back here when the window is occluded, translucent, or
// otherwise ineligible for ScreenGrab.
package windowgrab

import "github.com/kirides/wincrop/capture"

// Grab is the WindowGrab backend. The Windows-backed implementation
// lives in windowgrab_windows.go.
type Grab struct {
	Inspector capture.WindowInspector
	handle    capture.WindowHandle

	// prevWidth/prevHeight track the previous frame's captured size, the
	// window_size_map_ bookkeeping window_capturer_win.cc uses to force
	// a PrintWindow pass on pre-Windows-8 targets whenever the window's
	// size changes (CaptureFrame's Aero/size-change branch).
	prevWidth, prevHeight int32
}

// New builds a WindowGrab backend bound to the given window inspector.
func New(inspector capture.WindowInspector) *Grab {
	return &Grab{Inspector: inspector}
}

func (g *Grab) Start() error { return nil }

func (g *Grab) SelectSource(hwnd capture.WindowHandle) error {
	g.handle = hwnd
	g.prevWidth, g.prevHeight = 0, 0
	return nil
}

func (g *Grab) Name() string { return "windowgrab" }

// effectiveRect resolves the content rectangle to crop the captured
// window frame down to, intersected with a simple clip region the same
// way ScreenGrab does (a window with a complex region has no single
// crop rect, so the caller falls back to the full window rect).
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
