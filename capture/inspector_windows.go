package capture

import (
	"github.com/kirides/wincrop/win"
)

// Win32Inspector is the Windows-backed WindowInspector, grounded on the
// teacher's native_windows.go GDI plumbing and on
// window_capturer_win.cc's WindowCaptureHelperWin.
type Win32Inspector struct{}

// NewWin32Inspector returns the production WindowInspector.
func NewWin32Inspector() *Win32Inspector { return &Win32Inspector{} }

func toHWND(h WindowHandle) win.HWND { return win.HWND(h) }

func rectFromWin(r win.RECT) Rect {
	return Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func (Win32Inspector) IsVisibleOnCurrentDesktop(hwnd WindowHandle) bool {
	h := toHWND(hwnd)
	if !win.IsWindow(h) {
		return false
	}
	if !win.IsWindowVisible(h) {
		return false
	}
	return !win.IsWindowCloaked(h)
}

func (Win32Inspector) IsCloaked(hwnd WindowHandle) bool {
	return win.IsWindowCloaked(toHWND(hwnd))
}

func (Win32Inspector) IsAeroEnabled() bool {
	return win.IsAeroEnabled()
}

func (Win32Inspector) WindowRect(hwnd WindowHandle) (Rect, bool) {
	r, ok := win.GetWindowRect(toHWND(hwnd))
	if !ok {
		return Rect{}, false
	}
	return rectFromWin(r), true
}

func (Win32Inspector) ContentRect(hwnd WindowHandle) (Rect, bool) {
	h := toHWND(hwnd)
	client, ok := win.GetClientRect(h)
	if !ok {
		return Rect{}, false
	}
	topLeft := win.POINT{X: client.Left, Y: client.Top}
	bottomRight := win.POINT{X: client.Right, Y: client.Bottom}
	if !win.ClientToScreen(h, &topLeft) || !win.ClientToScreen(h, &bottomRight) {
		return Rect{}, false
	}
	return Rect{Left: topLeft.X, Top: topLeft.Y, Right: bottomRight.X, Bottom: bottomRight.Y}, true
}

func (Win32Inspector) WindowRegion(hwnd WindowHandle) WindowRegion {
	kind, box := win.GetWindowRegionType(toHWND(hwnd))
	switch kind {
	case win.SIMPLEREGION:
		return WindowRegion{Kind: RegionSimple, Box: rectFromWin(box)}
	case win.COMPLEXREGION:
		return WindowRegion{Kind: RegionComplex}
	default:
		return WindowRegion{Kind: RegionNone}
	}
}

func (Win32Inspector) IsLayered(hwnd WindowHandle) bool {
	style := win.GetWindowLong(toHWND(hwnd), win.GWL_EXSTYLE)
	return style&win.WS_EX_LAYERED != 0
}

func (Win32Inspector) LayeredAttributes(hwnd WindowHandle) LayeredInfo {
	key, alpha, flags, ok := win.GetLayeredWindowAttributes(toHWND(hwnd))
	if !ok {
		return LayeredInfo{Readable: false}
	}
	return LayeredInfo{
		Readable:    true,
		ColorKey:    uint32(key),
		Alpha:       alpha,
		HasColorKey: flags&win.LWA_COLORKEY != 0,
		HasAlpha:    flags&win.LWA_ALPHA != 0,
	}
}

func (Win32Inspector) ClassName(hwnd WindowHandle) string {
	return win.GetClassName(toHWND(hwnd))
}

func (Win32Inspector) Title(hwnd WindowHandle) string {
	return win.GetWindowText(toHWND(hwnd))
}

func (Win32Inspector) AncestorRoot(hwnd WindowHandle) WindowHandle {
	return WindowHandle(win.GetAncestor(toHWND(hwnd), win.GA_ROOT))
}

func (Win32Inspector) AncestorOwnerRoot(hwnd WindowHandle) WindowHandle {
	return WindowHandle(win.GetAncestor(toHWND(hwnd), win.GA_ROOTOWNER))
}

func (Win32Inspector) Parent(hwnd WindowHandle) WindowHandle {
	return WindowHandle(win.GetParent(toHWND(hwnd)))
}

func (Win32Inspector) Owner(hwnd WindowHandle) WindowHandle {
	return WindowHandle(win.GetWindowOwner(toHWND(hwnd)))
}

func (Win32Inspector) ProcessAndThread(hwnd WindowHandle) (pid uint32, tid uint32) {
	threadID, processID := win.GetWindowThreadProcessId(toHWND(hwnd))
	return processID, threadID
}

// chromeNotificationClass is the window class Chrome/Chromium uses for
// its borderless toast notifications.
const chromeNotificationClass = "Chrome_WidgetWin_1"

func (w Win32Inspector) IsChromeNotification(hwnd WindowHandle) bool {
	if w.ClassName(hwnd) != chromeNotificationClass {
		return false
	}
	style := win.GetWindowLong(toHWND(hwnd), win.GWL_STYLE)
	return style&win.WS_CAPTION == 0
}

func (Win32Inspector) ChildWindowsContain(hwnd WindowHandle, className string) bool {
	found := false
	win.EnumChildWindows(toHWND(hwnd), func(h win.HWND) bool {
		if win.GetClassName(h) == className {
			found = true
			return false
		}
		return true
	})
	return found
}

func (w Win32Inspector) IntersectsSelected(hwnd WindowHandle, selectedRect Rect) bool {
	rect, ok := w.ContentRect(hwnd)
	if !ok {
		return false
	}
	return !rect.Intersect(selectedRect).IsEmpty()
}

func (Win32Inspector) IsWindow(hwnd WindowHandle) bool {
	return win.IsWindow(toHWND(hwnd))
}

func (Win32Inspector) IsMinimized(hwnd WindowHandle) bool {
	return win.IsIconic(toHWND(hwnd))
}

func (Win32Inspector) IsStyleCaptioned(hwnd WindowHandle) bool {
	style := win.GetWindowLong(toHWND(hwnd), win.GWL_STYLE)
	return style&win.WS_CAPTION != 0
}

func (Win32Inspector) IsAppWindow(hwnd WindowHandle) bool {
	style := win.GetWindowLong(toHWND(hwnd), win.GWL_EXSTYLE)
	return style&win.WS_EX_APPWINDOW != 0
}

// isResponsiveTimeoutMs mirrors WindowsEnumerationHandler's 50ms budget:
// long enough to tolerate a system under load, short enough not to stall
// enumeration on a single hung window.
const isResponsiveTimeoutMs = 50

func (Win32Inspector) IsResponsive(hwnd WindowHandle) bool {
	return win.SendMessageTimeout(toHWND(hwnd), isResponsiveTimeoutMs)
}

func (Win32Inspector) BringToTop(hwnd WindowHandle) bool {
	return win.BringWindowToTop(toHWND(hwnd))
}

func (Win32Inspector) SetForeground(hwnd WindowHandle) bool {
	return win.SetForegroundWindow(toHWND(hwnd))
}

func (Win32Inspector) WindowUnderPoint(p Point) WindowHandle {
	return WindowHandle(win.WindowFromPoint(win.POINT{X: p.X, Y: p.Y}))
}

func (Win32Inspector) IsInMoveSize(hwnd WindowHandle) bool {
	info, ok := win.GetGUIThreadInfo(toHWND(hwnd))
	if !ok {
		return false
	}
	return info.Flags&win.GUI_INMOVESIZE != 0
}

func (Win32Inspector) EnumerateRootWindows(fn func(WindowHandle) bool) {
	win.EnumWindows(func(h win.HWND) bool {
		return fn(WindowHandle(h))
	})
}

func (Win32Inspector) EnumerateChildWindows(hwnd WindowHandle, fn func(WindowHandle) bool) {
	win.EnumChildWindows(toHWND(hwnd), func(h win.HWND) bool {
		return fn(WindowHandle(h))
	})
}

func (Win32Inspector) FindWindowByClass(className string, after WindowHandle) WindowHandle {
	return WindowHandle(win.FindWindowEx(0, toHWND(after), className))
}

func (Win32Inspector) FullscreenRect() Rect {
	count := screenshotNumDisplays()
	if count == 0 {
		r, _ := win.GetWindowRect(win.GetDesktopWindow())
		return rectFromWin(r)
	}
	var full Rect
	for i := 0; i < count; i++ {
		full = unionRect(full, screenshotDisplayBounds(i))
	}
	return full
}
