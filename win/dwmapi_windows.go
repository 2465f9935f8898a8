package win

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	dwmapi = windows.NewLazySystemDLL("dwmapi.dll")

	procDwmGetWindowAttribute   = dwmapi.NewProc("DwmGetWindowAttribute")
	procDwmIsCompositionEnabled = dwmapi.NewProc("DwmIsCompositionEnabled")
)

// IsWindowCloaked reports whether DWM has hidden hwnd from the user
// without minimizing it (DWMWA_CLOAKED), e.g. a UWP host whose content
// window is on another virtual desktop.
func IsWindowCloaked(hwnd HWND) bool {
	var cloaked uint32
	ret, _, _ := procDwmGetWindowAttribute.Call(
		uintptr(hwnd), uintptr(DWMWA_CLOAKED),
		uintptr(unsafe.Pointer(&cloaked)), unsafe.Sizeof(cloaked),
	)
	if ret != 0 { // S_OK == 0
		return false
	}
	return cloaked != 0
}

// IsAeroEnabled reports whether desktop composition (DWM) is active.
// Always true on Windows 8 and later, where composition cannot be
// disabled; kept as a real query for Windows 7 parity.
func IsAeroEnabled() bool {
	var enabled int32
	ret, _, _ := procDwmIsCompositionEnabled.Call(uintptr(unsafe.Pointer(&enabled)))
	if ret != 0 {
		return false
	}
	return enabled != 0
}
