package graphicsgrab

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"github.com/kirides/wincrop/capture"
)

var (
	d3d11DLL = syscall.NewLazyDLL("d3d11.dll")

	procD3D11CreateDevice = d3d11DLL.NewProc("D3D11CreateDevice")
)

const (
	d3dDriverTypeHardware = 1
	d3dFeatureLevel11_0   = 0xb000
	d3d11SDKVersion       = 7

	d3d11UsageStaging  = 3
	d3d11CPUAccessRead = 0x20000
	dxgiFormatB8G8R8A8 = 87

	dxgiErrWaitTimeout   = 0x887A0027
	dxgiErrAccessLost    = 0x887A0026
	dxgiErrDeviceRemoved = 0x887A0005
	dxgiErrDeviceReset   = 0x887A0007

	// IUnknown vtable slots, fixed across every COM interface.
	vtblQueryInterface = 0
	vtblRelease        = 2

	// DXGI/D3D11 vtable slots, counted past the IUnknown/IDXGIObject
	// headroom each interface inherits.
	dxgiDeviceGetAdapter       = 7
	dxgiAdapterEnumOutputs     = 7
	dxgiOutput1DuplicateOutput = 22
	dxgiDuplGetDesc            = 7
	dxgiDuplAcquireNextFrame   = 8
	dxgiDuplReleaseFrame       = 14
	d3d11DeviceCreateTexture2D = 5
	d3d11CtxMap                = 14
	d3d11CtxUnmap              = 15
	d3d11CtxCopyResource       = 47
)

// comGUID matches a Win32 GUID's 16-byte layout.
type comGUID struct {
	a uint32
	b uint16
	c uint16
	d [8]byte
}

var (
	iidIDXGIDevice     = comGUID{0x54ec77fa, 0x1377, 0x44e6, [8]byte{0x8c, 0x32, 0x88, 0xfd, 0x5f, 0x44, 0xc8, 0x4c}}
	iidID3D11Texture2D = comGUID{0x6f15aaf2, 0xd208, 0x4e89, [8]byte{0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}}
	iidIDXGIOutput1    = comGUID{0x00cddea8, 0x939b, 0x4b83, [8]byte{0xa3, 0x40, 0xa6, 0x85, 0x22, 0x66, 0x66, 0xcc}}
)

type d3d11Texture2DDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleCount    uint32
	SampleQuality  uint32
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type d3d11MappedSubresource struct {
	PData      uintptr
	RowPitch   uint32
	DepthPitch uint32
}

type dxgiRational struct {
	Numerator   uint32
	Denominator uint32
}

type dxgiModeDesc struct {
	Width            uint32
	Height           uint32
	RefreshRate      dxgiRational
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

type dxgiOutDuplDesc struct {
	ModeDesc                   dxgiModeDesc
	Rotation                   uint32
	DesktopImageInSystemMemory int32
}

type dxgiOutDuplFrameInfo struct {
	LastPresentTime           int64
	LastMouseUpdateTime       int64
	AccumulatedFrames         uint32
	RectsCoalesced            int32
	ProtectedContentMaskedOut int32
	PointerPositionX          int32
	PointerPositionY          int32
	PointerVisible            int32
	TotalMetadataBufferSize   uint32
	PointerShapeBufferSize    uint32
}

// comVtblFn resolves a COM vtable function pointer by index.
func comVtblFn(obj uintptr, idx int) uintptr {
	vtablePtr := *(*uintptr)(unsafe.Pointer(obj))
	return *(*uintptr)(unsafe.Pointer(vtablePtr + uintptr(idx)*unsafe.Sizeof(uintptr(0))))
}

// comCall invokes the obj's vtable slot idx with args, returning an error
// when the HRESULT's sign bit is set.
func comCall(obj uintptr, idx int, args ...uintptr) (uintptr, error) {
	all := append([]uintptr{obj}, args...)
	hr, _, _ := syscall.SyscallN(comVtblFn(obj, idx), all...)
	if int32(hr) < 0 {
		return hr, fmt.Errorf("hresult 0x%08X", uint32(hr))
	}
	return hr, nil
}

func comRelease(obj uintptr) {
	if obj == 0 {
		return
	}
	syscall.SyscallN(comVtblFn(obj, vtblRelease), obj)
}

// duplicator holds the live D3D11/DXGI COM objects backing one capture
// session. Created lazily on Start and torn down on Close.
type duplicator struct {
	device      uintptr
	context     uintptr
	duplication uintptr
	staging     uintptr
	width       int
	height      int
}

func (g *Grab) Start() error {
	d, err := newDuplicator(0)
	if err != nil {
		return err
	}
	g.dup = d
	return nil
}

func newDuplicator(displayIndex int) (*duplicator, error) {
	var device, context uintptr
	featureLevel := uint32(d3dFeatureLevel11_0)
	var actualLevel uint32
	hr, _, _ := procD3D11CreateDevice.Call(
		0,
		uintptr(d3dDriverTypeHardware),
		0,
		0,
		uintptr(unsafe.Pointer(&featureLevel)),
		1,
		uintptr(d3d11SDKVersion),
		uintptr(unsafe.Pointer(&device)),
		uintptr(unsafe.Pointer(&actualLevel)),
		uintptr(unsafe.Pointer(&context)),
	)
	if int32(hr) < 0 {
		return nil, fmt.Errorf("graphicsgrab: D3D11CreateDevice failed: 0x%08X", uint32(hr))
	}

	var dxgiDevice uintptr
	if _, err := comCall(device, vtblQueryInterface, uintptr(unsafe.Pointer(&iidIDXGIDevice)), uintptr(unsafe.Pointer(&dxgiDevice))); err != nil {
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: QueryInterface IDXGIDevice: %w", err)
	}
	defer comRelease(dxgiDevice)

	var adapter uintptr
	if _, err := comCall(dxgiDevice, dxgiDeviceGetAdapter, uintptr(unsafe.Pointer(&adapter))); err != nil {
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: IDXGIDevice::GetAdapter: %w", err)
	}
	defer comRelease(adapter)

	var output uintptr
	if _, err := comCall(adapter, dxgiAdapterEnumOutputs, uintptr(displayIndex), uintptr(unsafe.Pointer(&output))); err != nil {
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: IDXGIAdapter::EnumOutputs: %w", err)
	}

	var output1 uintptr
	_, err := comCall(output, vtblQueryInterface, uintptr(unsafe.Pointer(&iidIDXGIOutput1)), uintptr(unsafe.Pointer(&output1)))
	comRelease(output)
	if err != nil {
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: QueryInterface IDXGIOutput1: %w", err)
	}
	defer comRelease(output1)

	var duplication uintptr
	if _, err := comCall(output1, dxgiOutput1DuplicateOutput, device, uintptr(unsafe.Pointer(&duplication))); err != nil {
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: IDXGIOutput1::DuplicateOutput: %w", err)
	}

	var desc dxgiOutDuplDesc
	if _, err := comCall(duplication, dxgiDuplGetDesc, uintptr(unsafe.Pointer(&desc))); err != nil {
		comRelease(duplication)
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: IDXGIOutputDuplication::GetDesc: %w", err)
	}
	width, height := int(desc.ModeDesc.Width), int(desc.ModeDesc.Height)
	if width <= 0 || height <= 0 {
		comRelease(duplication)
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: invalid duplication dimensions %dx%d", width, height)
	}

	stagingDesc := d3d11Texture2DDesc{
		Width:          uint32(width),
		Height:         uint32(height),
		MipLevels:      1,
		ArraySize:      1,
		Format:         dxgiFormatB8G8R8A8,
		SampleCount:    1,
		Usage:          d3d11UsageStaging,
		CPUAccessFlags: d3d11CPUAccessRead,
	}
	var staging uintptr
	if _, err := comCall(device, d3d11DeviceCreateTexture2D, uintptr(unsafe.Pointer(&stagingDesc)), 0, uintptr(unsafe.Pointer(&staging))); err != nil {
		comRelease(duplication)
		comRelease(context)
		comRelease(device)
		return nil, fmt.Errorf("graphicsgrab: CreateTexture2D staging: %w", err)
	}

	return &duplicator{device: device, context: context, duplication: duplication, staging: staging, width: width, height: height}, nil
}

func (d *duplicator) Close() {
	comRelease(d.staging)
	comRelease(d.duplication)
	comRelease(d.context)
	comRelease(d.device)
}

// acquire captures one full-desktop frame into RGBA pixels, blocking up to
// 200ms for a new frame. It returns (nil, nil) when no new frame arrived.
func (d *duplicator) acquire() ([]byte, error) {
	var frameInfo dxgiOutDuplFrameInfo
	var resource uintptr
	hr, _, _ := syscall.SyscallN(
		comVtblFn(d.duplication, dxgiDuplAcquireNextFrame),
		d.duplication,
		uintptr(200),
		uintptr(unsafe.Pointer(&frameInfo)),
		uintptr(unsafe.Pointer(&resource)),
	)
	hresult := uint32(hr)
	if hresult == dxgiErrWaitTimeout {
		return nil, nil
	}
	if hresult == dxgiErrAccessLost || hresult == dxgiErrDeviceRemoved || hresult == dxgiErrDeviceReset {
		return nil, errDuplicationLost
	}
	if int32(hr) < 0 {
		return nil, fmt.Errorf("graphicsgrab: AcquireNextFrame: 0x%08X", hresult)
	}
	defer syscall.SyscallN(comVtblFn(d.duplication, dxgiDuplReleaseFrame), d.duplication)

	if frameInfo.AccumulatedFrames == 0 {
		comRelease(resource)
		return nil, nil
	}

	var texture uintptr
	_, err := comCall(resource, vtblQueryInterface, uintptr(unsafe.Pointer(&iidID3D11Texture2D)), uintptr(unsafe.Pointer(&texture)))
	comRelease(resource)
	if err != nil {
		return nil, fmt.Errorf("graphicsgrab: QueryInterface ID3D11Texture2D: %w", err)
	}
	defer comRelease(texture)

	if _, err := comCall(d.context, d3d11CtxCopyResource, d.staging, texture); err != nil {
		return nil, fmt.Errorf("graphicsgrab: CopyResource: %w", err)
	}

	var mapped d3d11MappedSubresource
	if _, err := comCall(d.context, d3d11CtxMap, d.staging, 0, 1, 0, uintptr(unsafe.Pointer(&mapped))); err != nil {
		return nil, fmt.Errorf("graphicsgrab: Map staging texture: %w", err)
	}
	defer syscall.SyscallN(comVtblFn(d.context, d3d11CtxUnmap), d.context, d.staging, 0)

	rowBytes := d.width * 4
	pixels := make([]byte, rowBytes*d.height)
	rowPitch := int(mapped.RowPitch)
	if rowPitch == rowBytes {
		src := unsafe.Slice((*byte)(unsafe.Pointer(mapped.PData)), d.height*rowPitch)
		copy(pixels, src)
	} else {
		for y := 0; y < d.height; y++ {
			srcRow := unsafe.Slice((*byte)(unsafe.Pointer(mapped.PData+uintptr(y*rowPitch))), rowBytes)
			copy(pixels[y*rowBytes:], srcRow)
		}
	}
	bgraToRGBA(pixels)
	return pixels, nil
}

var errDuplicationLost = errors.New("graphicsgrab: desktop duplication lost, reinit required")

func bgraToRGBA(pixels []byte) {
	for i := 0; i+3 < len(pixels); i += 4 {
		pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
	}
}

func (g *Grab) CaptureFrame() (capture.Frame, capture.Result, error) {
	if g.dup == nil {
		if err := g.Start(); err != nil {
			return capture.Frame{}, capture.ResultErrorPermanent, err
		}
	}

	pixels, err := g.dup.acquire()
	if err == errDuplicationLost {
		g.dup.Close()
		g.dup = nil
		if startErr := g.Start(); startErr != nil {
			return capture.Frame{}, capture.ResultErrorTemporary, startErr
		}
		return capture.Frame{}, capture.ResultErrorTemporary, err
	}
	if err != nil {
		return capture.Frame{}, capture.ResultErrorTemporary, err
	}
	if pixels == nil {
		return capture.Frame{}, capture.ResultErrorTemporary, errNoNewFrame
	}

	full := capture.Frame{
		Width:  g.dup.width,
		Height: g.dup.height,
		Stride: g.dup.width * 4,
		Pixels: pixels,
		Rect:   capture.Rect{Left: 0, Top: 0, Right: int32(g.dup.width), Bottom: int32(g.dup.height)},
	}

	rect, ok := g.effectiveRect()
	if !ok {
		return full, capture.ResultSuccess, nil
	}
	return cropFrame(full, rect), capture.ResultSuccess, nil
}

var errNoNewFrame = errors.New("graphicsgrab: no new frame available")

func cropFrame(frame capture.Frame, rect capture.Rect) capture.Frame {
	width, height := int(rect.Width()), int(rect.Height())
	out := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		srcOff := (int(rect.Top)+y)*frame.Stride + int(rect.Left)*4
		dstOff := y * width * 4
		copy(out[dstOff:dstOff+width*4], frame.Pixels[srcOff:srcOff+width*4])
	}
	return capture.Frame{Width: width, Height: height, Stride: width * 4, Pixels: out, Rect: rect}
}
