package capture

// WindowHandle identifies a top-level or child window. Equality and
// hashing are by identity (spec.md §3).
type WindowHandle uintptr

// Rect is an integer rectangle. Right and Bottom are exclusive, matching
// the Win32 RECT convention the coordinates ultimately come from. The
// coordinate space (virtual screen, single display, or window-relative)
// is a property of where a Rect came from, not of the type itself —
// callers are expected to track it the way spec.md §3 names it.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// RectFromSize builds a Rect at the origin with the given dimensions.
func RectFromSize(width, height int32) Rect {
	return Rect{Right: width, Bottom: height}
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// IsEmpty reports whether the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// EqualsDefault reports whether r is the zero-value Rect, the sentinel
// used throughout spec.md for "no rectangle available".
func (r Rect) EqualsDefault() bool {
	return r == Rect{}
}

// Intersect returns the overlapping region of r and other. The result is
// the zero Rect if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	left := max32(r.Left, other.Left)
	top := max32(r.Top, other.Top)
	right := min32(r.Right, other.Right)
	bottom := min32(r.Bottom, other.Bottom)
	if right <= left || bottom <= top {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	if other.IsEmpty() {
		return true
	}
	return other.Left >= r.Left && other.Top >= r.Top &&
		other.Right <= r.Right && other.Bottom <= r.Bottom
}

// Translate shifts r by (dx, dy).
func (r Rect) Translate(dx, dy int32) Rect {
	return Rect{
		Left: r.Left + dx, Top: r.Top + dy,
		Right: r.Right + dx, Bottom: r.Bottom + dy,
	}
}

// Scale multiplies r's dimensions, keeping its top-left corner fixed.
// Suited to correcting for a window device context reporting a
// different size than GetWindowRect; the windowgrab backend does not
// call it.
func (r Rect) Scale(horizontal, vertical float64) Rect {
	return Rect{
		Left: r.Left, Top: r.Top,
		Right:  r.Left + int32(float64(r.Width())*horizontal),
		Bottom: r.Top + int32(float64(r.Height())*vertical),
	}
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
