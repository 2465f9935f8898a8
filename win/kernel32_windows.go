package win

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	ntdll    = windows.NewLazySystemDLL("ntdll.dll")

	procGetProcessHeap = kernel32.NewProc("GetProcessHeap")
	procHeapAlloc      = kernel32.NewProc("HeapAlloc")
	procHeapFree       = kernel32.NewProc("HeapFree")
	procRtlGetVersion  = ntdll.NewProc("RtlGetVersion")
)

// GetProcessHeap, HeapAlloc and HeapFree back the off-Go-heap scratch
// buffer GetDIBits writes into (ported from the teacher's
// native_windows.go: "GetDIBits balks at using Go memory on some
// systems").
func GetProcessHeap() uintptr {
	ret, _, _ := procGetProcessHeap.Call()
	return ret
}

func HeapAlloc(heap uintptr, flags uint32, size uintptr) uintptr {
	ret, _, _ := procHeapAlloc.Call(heap, uintptr(flags), size)
	return ret
}

func HeapFree(heap uintptr, flags uint32, mem uintptr) bool {
	ret, _, _ := procHeapFree.Call(heap, uintptr(flags), mem)
	return ret != 0
}

// rtlOSVersionInfo mirrors RTL_OSVERSIONINFOW, the layout RtlGetVersion
// fills in. GetVersionEx is unreliable above Windows 8 without an
// application manifest; RtlGetVersion reports the true OS version
// regardless of manifest.
type rtlOSVersionInfo struct {
	dwOSVersionInfoSize uint32
	dwMajorVersion      uint32
	dwMinorVersion      uint32
	dwBuildNumber       uint32
	dwPlatformId        uint32
	szCSDVersion        [128]uint16
}

// IsWindows8OrLater reports whether the running OS is Windows 8 (NT 6.2)
// or later, the version check window_capturer_win.cc's CaptureFrame
// uses to decide between always-PrintWindow and the Aero/size-change
// BitBlt preference.
func IsWindows8OrLater() bool {
	var info rtlOSVersionInfo
	info.dwOSVersionInfoSize = uint32(unsafe.Sizeof(info))
	procRtlGetVersion.Call(uintptr(unsafe.Pointer(&info)))
	return info.dwMajorVersion > 6 || (info.dwMajorVersion == 6 && info.dwMinorVersion >= 2)
}
