package win

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	gdi32 = windows.NewLazySystemDLL("gdi32.dll")

	procCreateRectRgn = gdi32.NewProc("CreateRectRgn")
	procGetRgnBox     = gdi32.NewProc("GetRgnBox")
	procDeleteObject  = gdi32.NewProc("DeleteObject")
	procGetDIBits     = gdi32.NewProc("GetDIBits")
)

func CreateRectRgn(left, top, right, bottom int32) uintptr {
	ret, _, _ := procCreateRectRgn.Call(uintptr(left), uintptr(top), uintptr(right), uintptr(bottom))
	return ret
}

func GetRgnBox(hrgn uintptr) RECT {
	var r RECT
	procGetRgnBox.Call(hrgn, uintptr(unsafe.Pointer(&r)))
	return r
}

func DeleteObject(h uintptr) bool {
	ret, _, _ := procDeleteObject.Call(h)
	return ret != 0
}

// GetDIBits reads bitmap back into caller-owned memory as a device
// independent bitmap, per info's BITMAPINFOHEADER. Not exported by
// lxn/win, so this is hand-rolled the way the teacher's win package
// declared it for mkwinsyscall (native_windows.go: "GetDIBits balks at
// using Go memory on some systems" is why callers pass a heap-allocated
// buffer rather than a Go slice).
func GetDIBits(hdc, hbmp uintptr, startScan, scanLines uint32, bits uintptr, info *BITMAPINFO, usage uint32) int32 {
	ret, _, _ := procGetDIBits.Call(
		hdc, hbmp, uintptr(startScan), uintptr(scanLines),
		bits, uintptr(unsafe.Pointer(info)), uintptr(usage),
	)
	return int32(ret)
}
