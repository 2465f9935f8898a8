// Package graphicsgrab implements an alternate ScreenGrab-class backend
// that captures through DXGI Desktop Duplication instead of
// BitBlt/GetDIBits, so hardware-accelerated surfaces are read back
// without the tearing/compositor interference a GDI BitBlt can suffer
// under. Like ScreenGrab it captures the whole display and relies on
// CroppingCoordinator's occlusion check before dispatching here: a
// foreign window on top of the target still leaks into the frame.
package graphicsgrab

import "github.com/kirides/wincrop/capture"

// Grab is the DXGI-backed screen capture backend. The Windows-specific
// duplication plumbing lives in graphicsgrab_windows.go.
type Grab struct {
	Inspector capture.WindowInspector
	handle    capture.WindowHandle
	dup       *duplicator
}

// Close releases the live DXGI/D3D11 COM objects, if any were created.
func (g *Grab) Close() {
	if g.dup != nil {
		g.dup.Close()
		g.dup = nil
	}
}

// New builds a graphicsgrab backend bound to the given window inspector.
func New(inspector capture.WindowInspector) *Grab {
	return &Grab{Inspector: inspector}
}

func (g *Grab) SelectSource(hwnd capture.WindowHandle) error {
	g.handle = hwnd
	return nil
}

func (g *Grab) Name() string { return "graphicsgrab" }

// effectiveRect mirrors screengrab.Grab.effectiveRect: the content rect
// clipped to a simple window region, refused for a complex one.
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
