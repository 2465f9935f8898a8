package capture

import (
	"sync"
	"time"

	"github.com/kirides/wincrop/internal/logger"
)

var topOfMeLog = logger.WithComponent("capture/topofme")

const (
	topOfMeHz           = 30
	topOfMePeriod       = time.Second / topOfMeHz
	topOfMeIgnoreCounter = 2
	// TopOfMeChangedWindowMs is the debounce window IsChanged is always
	// called with by CaptureBackendSelector (spec.md §4.4, §4.5).
	TopOfMeChangedWindowMs = 500
)

var (
	coreWindowClasses = []string{
		"Windows.UI.Core.CoreWindow",
		"Shell_InputSwitchTopLevelWindow",
	}
	trayAdjacentClasses = []string{
		"TaskListThumbnailWnd",
		"#32768",
		"tooltips_class32",
		"Xaml_WindowedPopupClass",
		"SysShadow",
	}
)

// TopOfMeWorker is the background, single-threaded ~30 Hz refresh of the
// exclusion set and core-windows set described in spec.md §4.4. One
// worker is bound to exactly one selected window at a time; Bind resets
// it for a new selection.
type TopOfMeWorker struct {
	inspector WindowInspector

	mu            sync.Mutex
	ctx           SelectedWindowContext
	exclusionSet  []WindowHandle
	coreWindows   []WindowHandle
	lastChangedMs ChangeTimestamp
	ignoreCounter int
	waiters       []chan struct{}

	startOnce sync.Once
	started   bool
	quit      chan struct{}
	stopped   chan struct{}
}

// NewTopOfMeWorker builds a worker bound to no window yet; call Bind
// before Start.
func NewTopOfMeWorker(inspector WindowInspector) *TopOfMeWorker {
	return &TopOfMeWorker{
		inspector: inspector,
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Bind rebinds the worker to a newly selected window, clearing the
// exclusion set, the change timestamp, and the ignore counter
// (spec.md §4.7 select_source).
func (w *TopOfMeWorker) Bind(ctx SelectedWindowContext) {
	w.mu.Lock()
	w.ctx = ctx
	w.exclusionSet = nil
	w.coreWindows = nil
	w.lastChangedMs = 0
	w.ignoreCounter = topOfMeIgnoreCounter
	w.mu.Unlock()
}

// Start launches the worker's background loop. Safe to call multiple
// times; only the first call has any effect.
func (w *TopOfMeWorker) Start() {
	w.startOnce.Do(func() {
		w.mu.Lock()
		w.started = true
		w.mu.Unlock()
		go w.run()
	})
}

// Stop signals the worker to quit and blocks until it exits
// (spec.md §4.4 cancellation, §5 teardown).
func (w *TopOfMeWorker) Stop() {
	select {
	case <-w.quit:
	default:
		close(w.quit)
	}
	<-w.stopped
}

func (w *TopOfMeWorker) run() {
	defer close(w.stopped)
	ticker := time.NewTicker(topOfMePeriod)
	defer ticker.Stop()
	for {
		select {
		case <-w.quit:
			w.releaseWaiters()
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *TopOfMeWorker) tick() {
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()

	if !ctx.IsSelectedWindowValid() {
		topOfMeLog.Warn().Msg("occlusion scan failed: selected window is no longer valid")
		w.releaseWaiters()
		return
	}

	core := w.scanCoreWindows(ctx)
	exclusion, moving := w.scanExclusion(ctx, core)

	w.mu.Lock()
	changed := moving || !sameHandles(exclusion, w.exclusionSet)
	w.exclusionSet = exclusion
	w.coreWindows = core
	if changed {
		w.lastChangedMs = NowMs()
	}
	w.mu.Unlock()

	if changed {
		topOfMeLog.Debug().Bool("moving", moving).Int("exclusion", len(exclusion)).Msg("exclusion set changed")
	}

	w.releaseWaiters()
}

// scanCoreWindows implements spec.md §4.4 steps 1-2: class-seeded
// composition/input-method/tray windows that EnumWindows does not
// reliably surface.
func (w *TopOfMeWorker) scanCoreWindows(ctx SelectedWindowContext) []WindowHandle {
	var windows []WindowHandle

	for _, class := range coreWindowClasses {
		var after WindowHandle
		for {
			h := w.inspector.FindWindowByClass(class, after)
			if h == 0 {
				break
			}
			if !w.inspector.IsCloaked(h) {
				windows = append(windows, h)
			}
			after = h
		}
	}

	tray := w.inspector.FindWindowByClass("Shell_TrayWnd", 0)
	if tray != 0 && w.inspector.IsVisibleOnCurrentDesktop(tray) {
		windows = append(windows, tray)
		for _, class := range trayAdjacentClasses {
			var after WindowHandle
			for {
				h := w.inspector.FindWindowByClass(class, after)
				if h == 0 {
					break
				}
				after = h
				if ctx.IsWindowOwned(w.inspector, h) || ctx.IsUWPAncestor(w.inspector, h) {
					continue
				}
				if w.inspector.IsVisibleOnCurrentDesktop(h) {
					windows = append(windows, h)
				}
			}
		}
	}
	return windows
}

// scanExclusion implements spec.md §4.4 step 3-4: the top-down
// enumeration, followed by dedup against the class-seeded candidates
// and a final overlap re-test of the remainder.
func (w *TopOfMeWorker) scanExclusion(ctx SelectedWindowContext, core []WindowHandle) (exclusion []WindowHandle, moving bool) {
	w.inspector.EnumerateRootWindows(func(h WindowHandle) bool {
		if w.inspector.IsInMoveSize(h) {
			moving = true
		}
		if h == ctx.Handle {
			return true
		}
		if !w.inspector.IsVisibleOnCurrentDesktop(h) {
			return true
		}
		if ctx.IsWindowOwned(w.inspector, h) {
			return true
		}
		if ctx.IsUWPAncestor(w.inspector, h) {
			return true
		}
		if ctx.IsWindowOverlapping(w.inspector, h) {
			exclusion = append(exclusion, h)
		}
		return true
	})

	remaining := make([]WindowHandle, 0, len(core))
	for _, h := range core {
		if containsHandle(exclusion, h) {
			continue
		}
		remaining = append(remaining, h)
	}
	for _, h := range remaining {
		rect, ok := w.inspector.ContentRect(h)
		if !ok {
			continue
		}
		if rect.Intersect(ctx.ContentRect).IsEmpty() {
			continue
		}
		exclusion = append(exclusion, h)
	}
	return exclusion, moving
}

func (w *TopOfMeWorker) releaseWaiters() {
	w.mu.Lock()
	waiters := w.waiters
	w.waiters = nil
	w.mu.Unlock()
	for _, ch := range waiters {
		close(ch)
	}
}

// IsChanged reports whether the exclusion set changed, or a drag was
// observed, within the last windowMs milliseconds. The first few calls
// after Bind always report false, debouncing initial convergence while
// the worker's first scans are still in flight (spec.md §4.4).
func (w *TopOfMeWorker) IsChanged(windowMs int64) bool {
	w.mu.Lock()
	if w.ignoreCounter > 0 {
		w.ignoreCounter--
		w.mu.Unlock()
		return false
	}
	last := w.lastChangedMs
	w.mu.Unlock()
	return ElapsedMs(last) < windowMs
}

// CoreWindows blocks until a scan has completed since this call was
// made, then returns the current CoreWindowsSet. If the worker has not
// been started, or quits while this call is waiting, it returns
// immediately with whatever snapshot is available (the quit-aware wait
// spec.md §9 flags as a needed fix over the original's unconditional
// event wait).
func (w *TopOfMeWorker) CoreWindows() []WindowHandle {
	w.mu.Lock()
	if !w.started {
		cw := cloneHandles(w.coreWindows)
		w.mu.Unlock()
		return cw
	}
	select {
	case <-w.stopped:
		cw := cloneHandles(w.coreWindows)
		w.mu.Unlock()
		return cw
	default:
	}
	ch := make(chan struct{})
	w.waiters = append(w.waiters, ch)
	w.mu.Unlock()

	select {
	case <-ch:
	case <-w.stopped:
	}

	w.mu.Lock()
	cw := cloneHandles(w.coreWindows)
	w.mu.Unlock()
	return cw
}

func sameHandles(a, b []WindowHandle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsHandle(set []WindowHandle, h WindowHandle) bool {
	for _, v := range set {
		if v == h {
			return true
		}
	}
	return false
}

func cloneHandles(in []WindowHandle) []WindowHandle {
	if in == nil {
		return nil
	}
	out := make([]WindowHandle, len(in))
	copy(out, in)
	return out
}
