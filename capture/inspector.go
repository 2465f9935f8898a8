package capture

// Point is an integer screen coordinate.
type Point struct {
	X, Y int32
}

// WindowInspector is the set of pure queries over a window handle that
// the rest of the capture package is built on (spec.md §4.1). A single
// implementation backs both the occlusion scanner and the
// change-detector worker so the two analyses agree on what "is this
// window part of me" means.
//
// Every method must be safe to call from either the caller thread or
// the TopOfMeWorker's background thread; none may block beyond the
// cost of a single Win32 query.
type WindowInspector interface {
	// IsVisibleOnCurrentDesktop reports whether hwnd is visible on the
	// desktop the user is currently looking at. False for invalid or
	// cloaked handles.
	IsVisibleOnCurrentDesktop(hwnd WindowHandle) bool

	// IsCloaked reports whether the compositor is hiding hwnd without
	// minimizing it. False if the query fails.
	IsCloaked(hwnd WindowHandle) bool

	// IsAeroEnabled reflects desktop-composition state.
	IsAeroEnabled() bool

	// WindowRect returns hwnd's outer bounding rectangle in
	// virtual-screen coordinates.
	WindowRect(hwnd WindowHandle) (Rect, bool)

	// ContentRect returns hwnd's drawable client area in virtual-screen
	// coordinates. Fails if the client area cannot be measured.
	ContentRect(hwnd WindowHandle) (Rect, bool)

	// WindowRegion returns the kind of clip region set on hwnd and, for
	// RegionSimple, its bounding box in window-relative coordinates.
	WindowRegion(hwnd WindowHandle) WindowRegion

	// IsLayered reports whether hwnd carries the WS_EX_LAYERED style.
	// LayeredAttributes is only meaningful when this is true.
	IsLayered(hwnd WindowHandle) bool

	// LayeredAttributes returns hwnd's layered-window transparency
	// settings, or Readable == false if they could not be queried.
	LayeredAttributes(hwnd WindowHandle) LayeredInfo

	ClassName(hwnd WindowHandle) string
	Title(hwnd WindowHandle) string

	AncestorRoot(hwnd WindowHandle) WindowHandle
	AncestorOwnerRoot(hwnd WindowHandle) WindowHandle
	Parent(hwnd WindowHandle) WindowHandle
	Owner(hwnd WindowHandle) WindowHandle

	// ProcessAndThread returns (processID, threadID); threadID == 0
	// means the handle is invalid.
	ProcessAndThread(hwnd WindowHandle) (pid uint32, tid uint32)

	IsChromeNotification(hwnd WindowHandle) bool

	// ChildWindowsContain reports whether hwnd has a descendant window
	// of the given class name.
	ChildWindowsContain(hwnd WindowHandle, className string) bool

	// IntersectsSelected reports whether hwnd's content rect intersects
	// selectedRect. A window that cannot be measured is treated as
	// non-overlapping (ignored).
	IntersectsSelected(hwnd WindowHandle, selectedRect Rect) bool

	IsWindow(hwnd WindowHandle) bool
	IsMinimized(hwnd WindowHandle) bool
	IsStyleCaptioned(hwnd WindowHandle) bool

	// IsAppWindow reports whether hwnd carries the WS_EX_APPWINDOW style,
	// the exemption GetSourceList grants an owned window that would
	// otherwise be filtered out as a tool/dialog window.
	IsAppWindow(hwnd WindowHandle) bool

	// IsResponsive probes hwnd's message pump with a short
	// SendMessageTimeout, used by GetSourceList to skip hung windows
	// during enumeration.
	IsResponsive(hwnd WindowHandle) bool

	BringToTop(hwnd WindowHandle) bool
	SetForeground(hwnd WindowHandle) bool

	WindowUnderPoint(p Point) WindowHandle

	// IsInMoveSize reports whether the thread owning hwnd is currently
	// inside a modal drag/resize loop (GUI_INMOVESIZE).
	IsInMoveSize(hwnd WindowHandle) bool

	// EnumerateRootWindows walks top-level windows in top-down z-order,
	// calling fn for each; fn returns false to stop early.
	EnumerateRootWindows(fn func(WindowHandle) bool)

	// EnumerateChildWindows walks every descendant of hwnd (all
	// generations), calling fn for each; fn returns false to stop early.
	EnumerateChildWindows(hwnd WindowHandle, fn func(WindowHandle) bool)

	// FindWindowByClass returns the next top-level window of the given
	// class after 'after' (pass 0 to start from the first match), the
	// way FindWindowExW is chained to walk every instance of a class.
	FindWindowByClass(className string, after WindowHandle) WindowHandle

	// FullscreenRect returns the bounding rectangle of the full virtual
	// screen (all displays combined), in virtual-screen coordinates.
	FullscreenRect() Rect
}
