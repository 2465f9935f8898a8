package screengrab

import (
	"errors"
	"unsafe"

	lxnwin "github.com/lxn/win"

	"github.com/kirides/wincrop/capture"
	ourwin "github.com/kirides/wincrop/win"
)

// CaptureFrame BitBlts the desktop device context into a compatible
// bitmap sized to the target rectangle and reads it back via
// GetDIBits, mirroring the teacher's native_windows.go captureImg —
// generalized from "always the whole screen at (0,0)" to an arbitrary
// virtual-screen rectangle, since ScreenGrab must crop to whatever
// window content rect the selector resolved this frame.
func (g *Grab) CaptureFrame() (capture.Frame, capture.Result, error) {
	rect, ok := g.effectiveRect()
	if !ok {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: no capturable rect")
	}

	desktop := ourwin.GetDesktopWindow()
	hdc := ourwin.GetDC(desktop)
	if hdc == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: GetDC failed")
	}
	defer ourwin.ReleaseDC(desktop, hdc)

	memDC := lxnwin.CreateCompatibleDC(lxnwin.HDC(hdc))
	if memDC == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: CreateCompatibleDC failed")
	}
	defer lxnwin.DeleteDC(memDC)

	width, height := rect.Width(), rect.Height()
	bitmap := lxnwin.CreateCompatibleBitmap(lxnwin.HDC(hdc), width, height)
	if bitmap == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: CreateCompatibleBitmap failed")
	}
	defer lxnwin.DeleteObject(lxnwin.HGDIOBJ(bitmap))

	old := lxnwin.SelectObject(memDC, lxnwin.HGDIOBJ(bitmap))
	if old == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: SelectObject failed")
	}
	defer lxnwin.SelectObject(memDC, old)

	if !lxnwin.BitBlt(memDC, 0, 0, width, height, lxnwin.HDC(hdc), rect.Left, rect.Top, lxnwin.SRCCOPY) {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: BitBlt failed")
	}

	var bm lxnwin.BITMAP
	lxnwin.GetObject(lxnwin.HGDIOBJ(bitmap), unsafe.Sizeof(lxnwin.BITMAP{}), unsafe.Pointer(&bm))

	var header ourwin.BITMAPINFOHEADER
	header.BiSize = uint32(unsafe.Sizeof(header))
	header.BiPlanes = 1
	header.BiBitCount = 32
	header.BiWidth = bm.BmWidth
	header.BiHeight = -bm.BmHeight
	header.BiCompression = ourwin.BI_RGB

	stride := int32(((int64(bm.BmWidth)*32 + 31) / 32) * 4)
	bufSize := stride * bm.BmHeight

	heap := ourwin.GetProcessHeap()
	mem := ourwin.HeapAlloc(heap, 0, uintptr(bufSize))
	if mem == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: HeapAlloc failed")
	}
	defer ourwin.HeapFree(heap, 0, mem)

	info := ourwin.BITMAPINFO{BmiHeader: header}
	if ourwin.GetDIBits(hdc, uintptr(bitmap), 0, uint32(height), mem, &info, ourwin.DIB_RGB_COLORS) == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("screengrab: GetDIBits failed")
	}

	pixels := make([]byte, bufSize)
	src := (*[1 << 30]byte)(unsafe.Pointer(mem))[:bufSize:bufSize]
	copy(pixels, src)
	bgraToRGBA(pixels)

	return capture.Frame{
		Width:  int(width),
		Height: int(height),
		Stride: int(stride),
		Pixels: pixels,
		Rect:   rect,
	}, capture.ResultSuccess, nil
}

// bgraToRGBA swaps the B and R channels in place, the way the
// teacher's (unretrieved) swizzle.BGRA helper is described doing in
// native_windows.go's captureImg comment.
func bgraToRGBA(pixels []byte) {
	for i := 0; i+3 < len(pixels); i += 4 {
		pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
	}
}
