package capture

import "fmt"

// CroppingCoordinator is the public capturer façade of spec.md §4.7: it
// owns the selected-window context, the TopOfMeWorker (via the
// selector), the backend-selection state machine, and the two capture
// backends, and remaps delivered frames into virtual-screen coordinates.
type CroppingCoordinator struct {
	Inspector WindowInspector
	Options   Options

	Screen Backend
	Window Backend

	selector *CaptureBackendSelector
	ctx      SelectedWindowContext
	active   Backend

	// windowRegionRect is the content rect intersected with the window's
	// region, cached at SelectSource and refreshed after every delivered
	// frame (mirroring window_region_rect_ in cropping_window_capturer_win.cc,
	// a class member updated on selection and on each OnCaptureResult
	// rather than re-derived on every read).
	windowRegionRect Rect
}

// NewCroppingCoordinator wires a coordinator around the given window
// inspector and the two required backends.
func NewCroppingCoordinator(inspector WindowInspector, opts Options, screen, window Backend) *CroppingCoordinator {
	return &CroppingCoordinator{
		Inspector: inspector,
		Options:   opts,
		Screen:    screen,
		Window:    window,
		selector:  NewCaptureBackendSelector(inspector, opts),
	}
}

// SelectSource binds the coordinator to hwnd. Returns an error if hwnd
// is not a valid, visible, non-minimized window (spec.md §4.7).
func (c *CroppingCoordinator) SelectSource(hwnd WindowHandle) error {
	if !c.Inspector.IsWindow(hwnd) {
		return fmt.Errorf("wincrop: %w", ErrSourceNotFound)
	}
	if !c.Inspector.IsVisibleOnCurrentDesktop(hwnd) || c.Inspector.IsMinimized(hwnd) {
		return fmt.Errorf("wincrop: %w", ErrSourceNotFound)
	}

	c.ctx = NewSelectedWindowContext(c.Inspector, hwnd)
	if !c.ctx.IsSelectedWindowValid() {
		return fmt.Errorf("wincrop: %w", ErrSourceNotFound)
	}

	c.selector.Reset()
	c.selector.BindWorker(c.ctx)
	c.refreshWindowRegionRect()
	// The backends bind lazily in CaptureFrame once the selector has
	// decided which one will actually be used this frame.
	c.active = nil
	return nil
}

// refreshWindowRegionRect recomputes windowRegionRect from the current
// content rect and window region, the same derivation
// GetWindowRectInVirtualScreen used to perform inline on every call.
// Called at selection time and after every delivered frame so reads
// between frames see a cache, not a fresh probe of the window.
func (c *CroppingCoordinator) refreshWindowRegionRect() {
	contentRect, ok := c.Inspector.ContentRect(c.ctx.Handle)
	if !ok {
		c.windowRegionRect = Rect{}
		return
	}
	region := c.Inspector.WindowRegion(c.ctx.Handle)
	if region.Kind == RegionSimple {
		if windowRect, ok := c.Inspector.WindowRect(c.ctx.Handle); ok {
			contentRect = contentRect.Intersect(region.Box.Translate(windowRect.Left, windowRect.Top))
		}
	}
	c.windowRegionRect = contentRect
}

// CaptureFrame runs the spec.md §4.5 per-frame decision and delegates
// to the chosen backend, translating the result into virtual-screen
// coordinates.
func (c *CroppingCoordinator) CaptureFrame() (Frame, Result, error) {
	if !c.ctx.IsSelectedWindowValid() {
		return Frame{}, ResultErrorPermanent, ErrNoWindowSelected
	}
	if !c.Inspector.IsWindow(c.ctx.Handle) {
		return Frame{}, ResultErrorPermanent, ErrWindowGone
	}

	decision := c.selector.Decide(c.ctx)
	if decision.Drop {
		return Frame{}, ResultErrorTemporary, nil
	}

	var backend Backend
	switch decision.Choice {
	case BackendScreen:
		backend = c.Screen
	default:
		backend = c.Window
	}
	if backend != c.active {
		if err := backend.SelectSource(c.ctx.Handle); err != nil {
			return Frame{}, ResultErrorTemporary, err
		}
		c.active = backend
	}

	frame, result, err := backend.CaptureFrame()
	frame, result, err = c.onCaptureResult(frame, result, err)
	if result != ResultSuccess {
		return Frame{}, result, err
	}
	c.refreshWindowRegionRect()

	cropped, ok := c.GetWindowRectInVirtualScreen()
	if ok {
		frame.Rect = cropped
	}
	return frame, result, err
}

func (c *CroppingCoordinator) onCaptureResult(frame Frame, result Result, err error) (Frame, Result, error) {
	return c.selector.OnCaptureResult(frame, result, err)
}

// GetWindowRectInVirtualScreen computes the currently visible cropped
// rectangle: the cached windowRegionRect (the selected window's content
// rect intersected with its window region, as of the last SelectSource
// or delivered frame) intersected with the full-screen rect, re-based
// to the virtual-screen origin is not needed since all inputs are
// already in virtual-screen coordinates (spec.md §4.7, P8; cached the
// way cropping_window_capturer_win.cc:614-630 reads window_region_rect_
// rather than re-querying the window on every call).
func (c *CroppingCoordinator) GetWindowRectInVirtualScreen() (Rect, bool) {
	if !c.ctx.IsSelectedWindowValid() {
		return Rect{}, false
	}
	full := c.Inspector.FullscreenRect()
	result := c.windowRegionRect.Intersect(full)
	if result.IsEmpty() {
		return Rect{}, false
	}
	return result, true
}

// Focus brings the selected window to the foreground (supplemented
// feature, grounded on window_capturer_win.cc's FocusOnSelectedSource).
func (c *CroppingCoordinator) Focus() bool {
	if !c.ctx.IsSelectedWindowValid() {
		return false
	}
	c.Inspector.BringToTop(c.ctx.Handle)
	return c.Inspector.SetForeground(c.ctx.Handle)
}

// IsPointOccluded reports whether the window at point p is not the
// selected window and not part of its family (supplemented feature,
// grounded on WindowCaptureHelperWin::IsOccluded point probe).
func (c *CroppingCoordinator) IsPointOccluded(p Point) bool {
	if !c.ctx.IsSelectedWindowValid() {
		return true
	}
	hwnd := c.Inspector.WindowUnderPoint(p)
	if hwnd == 0 {
		return false
	}
	if c.ctx.IsWindowSelected(hwnd) || c.ctx.IsWindowOwned(c.Inspector, hwnd) {
		return false
	}
	return true
}

// Close stops the TopOfMeWorker (spec.md §5 teardown: the coordinator
// destructor joins the worker). The backends are not closed here; a
// backend with its own Close, such as graphicsgrab.Grab, is closed by
// whoever created it.
func (c *CroppingCoordinator) Close() {
	c.selector.StopWorker()
}
