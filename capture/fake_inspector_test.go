package capture

// fakeWindow is one entry in a fakeInspector's in-memory window table.
type fakeWindow struct {
	handle      WindowHandle
	class       string
	title       string
	visible     bool
	cloaked     bool
	minimized   bool
	owner       WindowHandle
	parent      WindowHandle
	pid, tid    uint32
	rect        Rect
	content     Rect
	region      WindowRegion
	layered     bool
	layeredInfo LayeredInfo
	chromeToast bool
	captioned   bool
	moving      bool
	appWindow   bool
	unresponsive bool
}

// fakeInspector is an in-memory WindowInspector used to unit test the
// occlusion scanner, the context predicates, and the backend selector
// without a real Windows desktop. Windows are supplied top-down, the
// first being the front-most, matching EnumWindows z-order.
type fakeInspector struct {
	windows []fakeWindow
	byClass map[string][]WindowHandle
	full    Rect
	aero    bool
}

func newFakeInspector(windows ...fakeWindow) *fakeInspector {
	f := &fakeInspector{windows: windows, byClass: map[string][]WindowHandle{}, aero: true}
	f.full = Rect{Left: 0, Top: 0, Right: 1920, Bottom: 1080}
	for _, w := range windows {
		f.byClass[w.class] = append(f.byClass[w.class], w.handle)
	}
	return f
}

func (f *fakeInspector) find(h WindowHandle) (fakeWindow, bool) {
	for _, w := range f.windows {
		if w.handle == h {
			return w, true
		}
	}
	return fakeWindow{}, false
}

func (f *fakeInspector) IsVisibleOnCurrentDesktop(h WindowHandle) bool {
	w, ok := f.find(h)
	return ok && w.visible && !w.cloaked
}

func (f *fakeInspector) IsCloaked(h WindowHandle) bool {
	w, ok := f.find(h)
	return ok && w.cloaked
}

func (f *fakeInspector) IsAeroEnabled() bool { return f.aero }

func (f *fakeInspector) WindowRect(h WindowHandle) (Rect, bool) {
	w, ok := f.find(h)
	if !ok {
		return Rect{}, false
	}
	return w.rect, true
}

func (f *fakeInspector) ContentRect(h WindowHandle) (Rect, bool) {
	w, ok := f.find(h)
	if !ok {
		return Rect{}, false
	}
	return w.content, true
}

func (f *fakeInspector) WindowRegion(h WindowHandle) WindowRegion {
	w, _ := f.find(h)
	return w.region
}

func (f *fakeInspector) IsLayered(h WindowHandle) bool {
	w, _ := f.find(h)
	return w.layered
}

func (f *fakeInspector) LayeredAttributes(h WindowHandle) LayeredInfo {
	w, _ := f.find(h)
	return w.layeredInfo
}

func (f *fakeInspector) ClassName(h WindowHandle) string {
	w, _ := f.find(h)
	return w.class
}

func (f *fakeInspector) Title(h WindowHandle) string {
	w, _ := f.find(h)
	return w.title
}

func (f *fakeInspector) AncestorRoot(h WindowHandle) WindowHandle {
	return f.AncestorOwnerRoot(h)
}

func (f *fakeInspector) AncestorOwnerRoot(h WindowHandle) WindowHandle {
	w, ok := f.find(h)
	if !ok {
		return 0
	}
	return w.owner
}

func (f *fakeInspector) Parent(h WindowHandle) WindowHandle {
	w, _ := f.find(h)
	return w.parent
}

func (f *fakeInspector) Owner(h WindowHandle) WindowHandle {
	w, _ := f.find(h)
	return w.owner
}

func (f *fakeInspector) ProcessAndThread(h WindowHandle) (uint32, uint32) {
	w, ok := f.find(h)
	if !ok {
		return 0, 0
	}
	return w.pid, w.tid
}

func (f *fakeInspector) IsChromeNotification(h WindowHandle) bool {
	w, _ := f.find(h)
	return w.chromeToast
}

func (f *fakeInspector) ChildWindowsContain(h WindowHandle, className string) bool {
	found := false
	f.EnumerateChildWindows(h, func(c WindowHandle) bool {
		if f.ClassName(c) == className {
			found = true
			return false
		}
		return true
	})
	return found
}

func (f *fakeInspector) IntersectsSelected(h WindowHandle, selectedRect Rect) bool {
	rect, ok := f.ContentRect(h)
	if !ok {
		return false
	}
	return !rect.Intersect(selectedRect).IsEmpty()
}

func (f *fakeInspector) IsWindow(h WindowHandle) bool {
	_, ok := f.find(h)
	return ok
}

func (f *fakeInspector) IsMinimized(h WindowHandle) bool {
	w, _ := f.find(h)
	return w.minimized
}

func (f *fakeInspector) IsStyleCaptioned(h WindowHandle) bool {
	w, _ := f.find(h)
	return w.captioned
}

func (f *fakeInspector) IsAppWindow(h WindowHandle) bool {
	w, _ := f.find(h)
	return w.appWindow
}

func (f *fakeInspector) IsResponsive(h WindowHandle) bool {
	w, _ := f.find(h)
	return !w.unresponsive
}

func (f *fakeInspector) BringToTop(WindowHandle) bool      { return true }
func (f *fakeInspector) SetForeground(WindowHandle) bool   { return true }
func (f *fakeInspector) WindowUnderPoint(p Point) WindowHandle {
	for _, w := range f.windows {
		if !w.visible {
			continue
		}
		pt := Rect{Left: p.X, Top: p.Y, Right: p.X + 1, Bottom: p.Y + 1}
		if !w.rect.Intersect(pt).IsEmpty() {
			return w.handle
		}
	}
	return 0
}

func (f *fakeInspector) IsInMoveSize(h WindowHandle) bool {
	w, _ := f.find(h)
	return w.moving
}

func (f *fakeInspector) EnumerateRootWindows(fn func(WindowHandle) bool) {
	for _, w := range f.windows {
		if w.parent != 0 {
			continue
		}
		if !fn(w.handle) {
			return
		}
	}
}

func (f *fakeInspector) EnumerateChildWindows(h WindowHandle, fn func(WindowHandle) bool) {
	for _, w := range f.windows {
		if w.parent == h {
			if !fn(w.handle) {
				return
			}
			f.EnumerateChildWindows(w.handle, fn)
		}
	}
}

func (f *fakeInspector) FindWindowByClass(className string, after WindowHandle) WindowHandle {
	list := f.byClass[className]
	if after == 0 {
		if len(list) == 0 {
			return 0
		}
		return list[0]
	}
	for i, h := range list {
		if h == after {
			if i+1 < len(list) {
				return list[i+1]
			}
			return 0
		}
	}
	return 0
}

func (f *fakeInspector) FullscreenRect() Rect { return f.full }

var _ WindowInspector = (*fakeInspector)(nil)
