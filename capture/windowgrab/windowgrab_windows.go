package windowgrab

import (
	"errors"
	"unsafe"

	lxnwin "github.com/lxn/win"

	"github.com/kirides/wincrop/capture"
	ourwin "github.com/kirides/wincrop/win"
)

// CaptureFrame is adapted from WindowCapturerWin::CaptureFrame in
// window_capturer_win.cc. On Windows 8+, BitBlt renders black content
// for DirectComposition-backed windows, so PrintWindow with
// PW_RENDERFULLCONTENT always runs first. Below Windows 8, PrintWindow
// is slow and flickers, so it's only used when Aero is disabled or the
// window's size changed since the previous frame; otherwise BitBlt of
// the window's own device context runs directly.
func (g *Grab) CaptureFrame() (capture.Frame, capture.Result, error) {
	if !g.Inspector.IsWindow(g.handle) {
		return capture.Frame{}, capture.ResultErrorPermanent, errors.New("windowgrab: window closed")
	}

	original, ok := g.Inspector.WindowRect(g.handle)
	if !ok {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("windowgrab: failed to read window rect")
	}

	// Match the original's "1x1 black frame" behavior for a minimized or
	// currently-invisible window rather than erroring: the window may be
	// transitioning in or out of full screen.
	if original.IsEmpty() || !g.Inspector.IsVisibleOnCurrentDesktop(g.handle) {
		return capture.Frame{Width: 1, Height: 1, Stride: 4, Pixels: []byte{0, 0, 0, 255}, Rect: capture.Rect{}}, capture.ResultSuccess, nil
	}

	cropped, ok := g.effectiveRect()
	if !ok {
		cropped = original
	}

	windowDC := ourwin.GetWindowDC(ourwin.HWND(g.handle))
	if windowDC == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("windowgrab: GetWindowDC failed")
	}
	defer ourwin.ReleaseDC(ourwin.HWND(g.handle), windowDC)

	width, height := original.Width(), original.Height()

	memDC := lxnwin.CreateCompatibleDC(lxnwin.HDC(windowDC))
	if memDC == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("windowgrab: CreateCompatibleDC failed")
	}
	defer lxnwin.DeleteDC(memDC)

	bitmap := lxnwin.CreateCompatibleBitmap(lxnwin.HDC(windowDC), width, height)
	if bitmap == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("windowgrab: CreateCompatibleBitmap failed")
	}
	defer lxnwin.DeleteObject(lxnwin.HGDIOBJ(bitmap))

	old := lxnwin.SelectObject(memDC, lxnwin.HGDIOBJ(bitmap))
	defer lxnwin.SelectObject(memDC, old)

	dataRect := cropped.Translate(-original.Left, -original.Top)

	sizeChanged := width != g.prevWidth || height != g.prevHeight
	useFullContent := ourwin.IsWindows8OrLater()
	usePrintWindow := useFullContent || !g.Inspector.IsAeroEnabled() || sizeChanged

	var printed bool
	if usePrintWindow {
		flags := ourwin.PW_RENDERFULLCONTENT
		if !useFullContent {
			flags = 0
		}
		printed = ourwin.PrintWindow(ourwin.HWND(g.handle), uintptr(memDC), uint32(flags))
	}
	if !printed {
		printed = lxnwin.BitBlt(memDC, 0, 0, width, height, lxnwin.HDC(windowDC), 0, 0, lxnwin.SRCCOPY)
	}
	if !printed {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("windowgrab: both PrintWindow and BitBlt failed")
	}
	g.prevWidth, g.prevHeight = width, height

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
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("windowgrab: HeapAlloc failed")
	}
	defer ourwin.HeapFree(heap, 0, mem)

	info := ourwin.BITMAPINFO{BmiHeader: header}
	if ourwin.GetDIBits(windowDC, uintptr(bitmap), 0, uint32(height), mem, &info, ourwin.DIB_RGB_COLORS) == 0 {
		return capture.Frame{}, capture.ResultErrorTemporary, errors.New("windowgrab: GetDIBits failed")
	}

	pixels := make([]byte, bufSize)
	src := (*[1 << 30]byte)(unsafe.Pointer(mem))[:bufSize:bufSize]
	copy(pixels, src)
	bgraToRGBA(pixels)

	frame := capture.Frame{
		Width:  int(width),
		Height: int(height),
		Stride: int(stride),
		Pixels: pixels,
		Rect:   cropped,
	}
	return cropFrame(frame, dataRect), capture.ResultSuccess, nil
}

// cropFrame crops a full-window capture down to dataRect, the window's
// content area relative to its own top-left, mirroring
// CreateCroppedDesktopFrame in the original.
func cropFrame(frame capture.Frame, dataRect capture.Rect) capture.Frame {
	if dataRect.Left == 0 && dataRect.Top == 0 && int(dataRect.Width()) == frame.Width && int(dataRect.Height()) == frame.Height {
		return frame
	}
	w, h := int(dataRect.Width()), int(dataRect.Height())
	if w <= 0 || h <= 0 || w > frame.Width || h > frame.Height {
		return frame
	}
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		srcOff := (int(dataRect.Top)+y)*frame.Stride + int(dataRect.Left)*4
		dstOff := y * w * 4
		copy(out[dstOff:dstOff+w*4], frame.Pixels[srcOff:srcOff+w*4])
	}
	frame.Pixels = out
	frame.Width = w
	frame.Height = h
	frame.Stride = w * 4
	return frame
}

// bgraToRGBA swaps the B and R channels in place.
func bgraToRGBA(pixels []byte) {
	for i := 0; i+3 < len(pixels); i += 4 {
		pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
	}
}
