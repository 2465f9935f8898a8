package win

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procEnumWindows             = user32.NewProc("EnumWindows")
	procEnumChildWindows        = user32.NewProc("EnumChildWindows")
	procGetWindowRect           = user32.NewProc("GetWindowRect")
	procGetClientRect           = user32.NewProc("GetClientRect")
	procClientToScreen          = user32.NewProc("ClientToScreen")
	procIsWindowVisible         = user32.NewProc("IsWindowVisible")
	procIsIconic                = user32.NewProc("IsIconic")
	procIsWindow                = user32.NewProc("IsWindow")
	procGetWindowLongW          = user32.NewProc("GetWindowLongW")
	procGetParent               = user32.NewProc("GetParent")
	procGetWindow               = user32.NewProc("GetWindow")
	procGetAncestor              = user32.NewProc("GetAncestor")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetClassNameW           = user32.NewProc("GetClassNameW")
	procGetWindowTextW          = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procFindWindowExW            = user32.NewProc("FindWindowExW")
	procGetGUIThreadInfo         = user32.NewProc("GetGUIThreadInfo")
	procSendMessageTimeoutW      = user32.NewProc("SendMessageTimeoutW")
	procGetWindowRgn            = user32.NewProc("GetWindowRgn")
	procGetLayeredWindowAttributes = user32.NewProc("GetLayeredWindowAttributes")
	procBringWindowToTop         = user32.NewProc("BringWindowToTop")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procWindowFromPoint          = user32.NewProc("WindowFromPoint")
	procGetDesktopWindow         = user32.NewProc("GetDesktopWindow")
	procGetDC                    = user32.NewProc("GetDC")
	procReleaseDC                = user32.NewProc("ReleaseDC")
	procPrintWindow              = user32.NewProc("PrintWindow")
	procGetWindowDC              = user32.NewProc("GetWindowDC")
)

// EnumWindowsProc mirrors the WNDENUMPROC callback signature: return
// false to stop the enumeration early.
type EnumWindowsProc func(hwnd HWND) bool

func wrapEnumProc(fn EnumWindowsProc) uintptr {
	return syscall.NewCallback(func(hwnd HWND, _ uintptr) uintptr {
		if fn(hwnd) {
			return 1
		}
		return 0
	})
}

// EnumWindows enumerates top-level windows in top-down z-order.
func EnumWindows(fn EnumWindowsProc) {
	procEnumWindows.Call(wrapEnumProc(fn), 0)
}

// EnumChildWindows enumerates all descendant windows of parent.
func EnumChildWindows(parent HWND, fn EnumWindowsProc) {
	procEnumChildWindows.Call(uintptr(parent), wrapEnumProc(fn), 0)
}

func GetWindowRect(hwnd HWND) (RECT, bool) {
	var r RECT
	ret, _, _ := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	return r, ret != 0
}

func GetClientRect(hwnd HWND) (RECT, bool) {
	var r RECT
	ret, _, _ := procGetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	return r, ret != 0
}

func ClientToScreen(hwnd HWND, p *POINT) bool {
	ret, _, _ := procClientToScreen.Call(uintptr(hwnd), uintptr(unsafe.Pointer(p)))
	return ret != 0
}

func IsWindowVisible(hwnd HWND) bool {
	ret, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
	return ret != 0
}

func IsIconic(hwnd HWND) bool {
	ret, _, _ := procIsIconic.Call(uintptr(hwnd))
	return ret != 0
}

func IsWindow(hwnd HWND) bool {
	ret, _, _ := procIsWindow.Call(uintptr(hwnd))
	return ret != 0
}

func GetWindowLong(hwnd HWND, index int32) int32 {
	ret, _, _ := procGetWindowLongW.Call(uintptr(hwnd), uintptr(index))
	return int32(ret)
}

func GetParent(hwnd HWND) HWND {
	ret, _, _ := procGetParent.Call(uintptr(hwnd))
	return HWND(ret)
}

func GetWindowOwner(hwnd HWND) HWND {
	ret, _, _ := procGetWindow.Call(uintptr(hwnd), uintptr(GW_OWNER))
	return HWND(ret)
}

func GetAncestor(hwnd HWND, flags uint32) HWND {
	ret, _, _ := procGetAncestor.Call(uintptr(hwnd), uintptr(flags))
	return HWND(ret)
}

// GetWindowThreadProcessId returns (threadID, processID); threadID == 0
// means the handle is invalid, matching SelectedWindowContext's
// invariant in spec.md §3.
func GetWindowThreadProcessId(hwnd HWND) (threadID uint32, processID uint32) {
	var pid uint32
	ret, _, _ := procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
	return uint32(ret), pid
}

func GetClassName(hwnd HWND) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

func GetWindowText(hwnd HWND) string {
	length, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if length == 0 {
		return ""
	}
	if length > 255 {
		length = 255
	}
	buf := make([]uint16, length+1)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf[:n])
}

// FindWindowEx finds the next window after hwndAfter among parent's
// children matching className. Pass hwndAfter == 0 to start from the
// first match, and repeat with the previous result to walk every
// instance (mirrors the FindWindowExW loop in
// cropping_window_capturer_win.cc's WindowsTopOfMeWorker::Run).
func FindWindowEx(parent, hwndAfter HWND, className string) HWND {
	cn, _ := syscall.UTF16PtrFromString(className)
	ret, _, _ := procFindWindowExW.Call(
		uintptr(parent), uintptr(hwndAfter),
		uintptr(unsafe.Pointer(cn)), 0,
	)
	return HWND(ret)
}

// GetGUIThreadInfo reports whether the thread owning hwnd is in a
// move/size modal loop (GUI_INMOVESIZE).
func GetGUIThreadInfo(hwnd HWND) (GUITHREADINFO, bool) {
	tid, _ := GetWindowThreadProcessId(hwnd)
	var info GUITHREADINFO
	info.CbSize = uint32(unsafe.Sizeof(info))
	ret, _, _ := procGetGUIThreadInfo.Call(uintptr(tid), uintptr(unsafe.Pointer(&info)))
	return info, ret != 0
}

// SendMessageTimeout probes whether hwnd's message pump is responsive,
// used to skip hung windows during enumeration (mirrors
// WindowsEnumerationHandler's SendMessageTimeout(..., SMTO_ABORTIFHUNG, 50)).
func SendMessageTimeout(hwnd HWND, timeoutMs uint32) bool {
	var result uintptr
	ret, _, _ := procSendMessageTimeoutW.Call(
		uintptr(hwnd), uintptr(WM_NULL), 0, 0,
		uintptr(SMTO_ABORTIFHUNG), uintptr(timeoutMs),
		uintptr(unsafe.Pointer(&result)),
	)
	return ret != 0
}

// GetWindowRegionType returns the window region kind (NULLREGION,
// SIMPLEREGION, COMPLEXREGION) and, for SIMPLEREGION, the region's
// bounding box in window-relative coordinates.
func GetWindowRegionType(hwnd HWND) (regionType int32, box RECT) {
	hrgn := CreateRectRgn(0, 0, 0, 0)
	if hrgn == 0 {
		return NULLREGION, RECT{}
	}
	defer DeleteObject(hrgn)

	ret, _, _ := procGetWindowRgn.Call(uintptr(hwnd), uintptr(hrgn))
	rt := int32(ret)
	if rt == 0 {
		// GetWindowRgn failed outright: treat as "no region" the same
		// way the caller treats NULLREGION (no clip, window unreadable).
		return NULLREGION, RECT{}
	}
	if rt == SIMPLEREGION {
		box = GetRgnBox(hrgn)
	}
	return rt, box
}

func GetLayeredWindowAttributes(hwnd HWND) (key COLORREF, alpha byte, flags uint32, ok bool) {
	ret, _, _ := procGetLayeredWindowAttributes.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&key)),
		uintptr(unsafe.Pointer(&alpha)),
		uintptr(unsafe.Pointer(&flags)),
	)
	return key, alpha, flags, ret != 0
}

func BringWindowToTop(hwnd HWND) bool {
	ret, _, _ := procBringWindowToTop.Call(uintptr(hwnd))
	return ret != 0
}

func SetForegroundWindow(hwnd HWND) bool {
	ret, _, _ := procSetForegroundWindow.Call(uintptr(hwnd))
	return ret != 0
}

func WindowFromPoint(p POINT) HWND {
	// POINT is passed by value: on the amd64 ABI its two int32 fields are
	// packed into a single 64-bit argument, Y in the high 32 bits and X
	// in the low 32 bits, not as two separate arguments.
	packed := uintptr(uint32(p.X)) | uintptr(uint32(p.Y))<<32
	ret, _, _ := procWindowFromPoint.Call(packed)
	return HWND(ret)
}

func GetDesktopWindow() HWND {
	ret, _, _ := procGetDesktopWindow.Call()
	return HWND(ret)
}

func GetDC(hwnd HWND) uintptr {
	ret, _, _ := procGetDC.Call(uintptr(hwnd))
	return ret
}

func ReleaseDC(hwnd HWND, hdc uintptr) bool {
	ret, _, _ := procReleaseDC.Call(uintptr(hwnd), hdc)
	return ret != 0
}

// PrintWindow renders hwnd's content into mem_dc, used by the WindowGrab
// backend so occluding windows never bleed into the frame.
func PrintWindow(hwnd HWND, hdc uintptr, flags uint32) bool {
	ret, _, _ := procPrintWindow.Call(uintptr(hwnd), hdc, uintptr(flags))
	return ret != 0
}

// GetWindowDC returns a device context for the entire window, including
// its non-client frame, unlike GetDC which is limited to the client
// area for non-desktop windows.
func GetWindowDC(hwnd HWND) uintptr {
	ret, _, _ := procGetWindowDC.Call(uintptr(hwnd))
	return ret
}
