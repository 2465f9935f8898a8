package capture

import "github.com/kbinani/screenshot"

// screenshotNumDisplays and screenshotDisplayBounds wrap
// github.com/kbinani/screenshot (the teacher's own multi-monitor
// enumeration dependency) so FullscreenRect can compute the true
// virtual-screen bounding box across every attached display.
func screenshotNumDisplays() int {
	return screenshot.NumActiveDisplays()
}

func screenshotDisplayBounds(n int) Rect {
	b := screenshot.GetDisplayBounds(n)
	return Rect{
		Left:   int32(b.Min.X),
		Top:    int32(b.Min.Y),
		Right:  int32(b.Max.X),
		Bottom: int32(b.Max.Y),
	}
}

func unionRect(a, b Rect) Rect {
	if a.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return a
	}
	return Rect{
		Left:   min32(a.Left, b.Left),
		Top:    min32(a.Top, b.Top),
		Right:  max32(a.Right, b.Right),
		Bottom: max32(a.Bottom, b.Bottom),
	}
}
