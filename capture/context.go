package capture

// SelectedWindowContext snapshots the identity of the window the user
// picked, refreshed whenever SelectSource runs (spec.md §3). Every
// predicate below reads only this snapshot and the live inspector, so
// a stale context degrades gracefully to IsSelectedWindowValid()==false
// rather than panicking on a dead handle.
type SelectedWindowContext struct {
	Handle      WindowHandle
	ProcessID   uint32
	ThreadID    uint32
	Title       string
	ContentRect Rect
}

// NewSelectedWindowContext snapshots hwnd through inspector. Returns a
// zero-value context (ThreadID == 0) if hwnd is no longer a window.
func NewSelectedWindowContext(inspector WindowInspector, hwnd WindowHandle) SelectedWindowContext {
	pid, tid := inspector.ProcessAndThread(hwnd)
	if tid == 0 {
		return SelectedWindowContext{}
	}
	rect, _ := inspector.ContentRect(hwnd)
	return SelectedWindowContext{
		Handle:      hwnd,
		ProcessID:   pid,
		ThreadID:    tid,
		Title:       inspector.Title(hwnd),
		ContentRect: rect,
	}
}

// IsSelectedWindowValid reports whether the context still names a live
// window (spec.md §4.2 edge case: selected window destroyed mid-session).
func (c SelectedWindowContext) IsSelectedWindowValid() bool {
	return c.ThreadID != 0
}

// IsWindowSelected reports whether hwnd is exactly the selected window.
func (c SelectedWindowContext) IsWindowSelected(hwnd WindowHandle) bool {
	return c.IsSelectedWindowValid() && hwnd == c.Handle
}

// IsWindowOwned reports whether hwnd belongs to the selected window's
// family: either its ancestor-owner-root resolves to the selected
// window, or it shares the selected window's owning thread and process
// (covers dialogs, popups, tooltips, and context menus spawned by the
// selected application that GetAncestor(GA_ROOTOWNER) does not always
// walk back to the right root for).
func (c SelectedWindowContext) IsWindowOwned(inspector WindowInspector, hwnd WindowHandle) bool {
	if !c.IsSelectedWindowValid() {
		return false
	}
	if inspector.AncestorOwnerRoot(hwnd) == c.Handle {
		return true
	}
	pid, tid := inspector.ProcessAndThread(hwnd)
	return tid != 0 && tid == c.ThreadID && pid == c.ProcessID
}

// IsUWPAncestor walks hwnd's parent chain upward looking for the
// selected window itself, and if found reports whether hwnd carries no
// caption style — the shape of a UWP frame host's invisible
// intermediate windows (e.g. Xaml_WindowedPopupClass, which has its own
// process id so IsWindowOwned can't see it), which must be treated as
// part of the selected window rather than as an occluder, unless hwnd
// has its own titlebar (spec.md §6 UWP note; selected_window_context.cc
// IsUWPAncestor).
func (c SelectedWindowContext) IsUWPAncestor(inspector WindowInspector, hwnd WindowHandle) bool {
	if !c.IsSelectedWindowValid() {
		return false
	}
	cur := hwnd
	for depth := 0; depth < 32; depth++ {
		parent := inspector.Parent(cur)
		if parent == 0 {
			return false
		}
		if parent == c.Handle {
			return !inspector.IsStyleCaptioned(hwnd)
		}
		cur = parent
	}
	return false
}

// IsWindowOverlapping reports whether hwnd's content rect intersects the
// selected window's content rect, delegating the geometry query to the
// inspector so both the occlusion scanner and TopOfMeWorker agree on it.
func (c SelectedWindowContext) IsWindowOverlapping(inspector WindowInspector, hwnd WindowHandle) bool {
	if !c.IsSelectedWindowValid() {
		return false
	}
	return inspector.IntersectsSelected(hwnd, c.ContentRect)
}
