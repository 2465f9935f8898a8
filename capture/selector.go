package capture

import (
	"time"

	"github.com/kirides/wincrop/internal/logger"
)

var selectorLog = logger.WithComponent("capture/selector")

// CachedDecision pins should_use_screen_capturer's result across the
// re-entrant on-capture-result callback (spec.md §3).
type CachedDecision int

const (
	CacheEmpty CachedDecision = iota
	CacheFalse
	CacheTrue
)

// transitionHysteresisSleep is the pause inserted on a Window→Screen
// transition, roughly one frame at 30 Hz, so an in-flight OS
// full-screen animation has time to settle (spec.md §4.5 step 5).
const transitionHysteresisSleep = 34 * time.Millisecond

// CaptureBackendSelector is the per-frame ScreenGrab/WindowGrab
// decision state machine (spec.md §4.5).
type CaptureBackendSelector struct {
	Inspector WindowInspector
	Options   Options

	worker  *TopOfMeWorker
	scanner OcclusionScanner

	capturer BackendChoice
	cached   CachedDecision

	windowRegionRect Rect

	// sleep is overridable so tests can run the hysteresis path without
	// a real 34ms pause.
	sleep func(time.Duration)
}

// NewCaptureBackendSelector builds a selector for the given inspector
// and options.
func NewCaptureBackendSelector(inspector WindowInspector, opts Options) *CaptureBackendSelector {
	return &CaptureBackendSelector{
		Inspector: inspector,
		Options:   opts,
		scanner: OcclusionScanner{
			Inspector:       inspector,
			ExcludedWindow:  opts.ExcludedWindow,
			AllowUWPCapture: opts.AllowUWPWindowCapture,
		},
		capturer: BackendUnknown,
		cached:   CacheEmpty,
		sleep:    time.Sleep,
	}
}

// Reset rebinds the selector to a freshly selected window, clearing the
// cached state machine (spec.md §4.7 select_source).
func (s *CaptureBackendSelector) Reset() {
	s.capturer = BackendUnknown
	s.cached = CacheEmpty
	s.windowRegionRect = Rect{}
}

// BindWorker rebinds an already-running TopOfMeWorker to the new
// selection. A no-op if no worker has been created yet (it will be
// created, bound, and started lazily on the next Decide call, per
// spec.md §4.5 step 2).
func (s *CaptureBackendSelector) BindWorker(ctx SelectedWindowContext) {
	if s.worker != nil {
		s.worker.Bind(ctx)
	}
}

// StopWorker joins the TopOfMeWorker's background goroutine, if one was
// ever created.
func (s *CaptureBackendSelector) StopWorker() {
	if s.worker != nil {
		s.worker.Stop()
	}
}

// Decision is the outcome of Decide: either a backend choice for this
// frame, or a temporary error that must drop the frame without
// advancing the state machine's caller-visible progress.
type Decision struct {
	Choice      BackendChoice
	Drop        bool
	DropIsTimed bool
}

// Decide runs spec.md §4.5 steps 1-6 and returns which backend should
// capture this frame, or that the frame must be dropped.
func (s *CaptureBackendSelector) Decide(ctx SelectedWindowContext) Decision {
	if rect, ok := s.Inspector.WindowRect(ctx.Handle); ok {
		s.windowRegionRect = rect
	} else {
		s.windowRegionRect = Rect{}
	}

	if s.Options.AllowUWPWindowCapture && s.worker == nil {
		s.worker = NewTopOfMeWorker(s.Inspector)
		s.worker.Bind(ctx)
		s.worker.Start()
	}

	if s.workerChanged() {
		// Pin cached=True so a stray delegated result from the backend
		// this frame is not reinterpreted as "fall back to WindowGrab",
		// then reset before returning (spec.md §7 invariant).
		s.cached = CacheTrue
		s.cached = CacheEmpty
		selectorLog.Debug().Msg("dropping frame: top-of-me worker reports window change")
		return Decision{Drop: true, DropIsTimed: false}
	}

	useScreen := s.shouldUseScreenCapturer(ctx)
	if useScreen {
		s.cached = CacheTrue
	} else {
		s.cached = CacheFalse
	}

	if s.capturer != BackendUnknown && s.capturer != BackendScreen && s.cached == CacheTrue {
		selectorLog.Info().Str("from", s.capturer.String()).Str("to", BackendScreen.String()).
			Dur("hysteresis", transitionHysteresisSleep).Msg("debouncing backend transition")
		s.sleep(transitionHysteresisSleep)
		s.capturer = BackendScreen
		s.cached = CacheEmpty
		return Decision{Drop: true, DropIsTimed: true}
	}

	previous := s.capturer
	if s.cached == CacheTrue {
		s.capturer = BackendScreen
	} else {
		s.capturer = BackendWindow
	}
	if previous != s.capturer {
		selectorLog.Debug().Str("from", previous.String()).Str("to", s.capturer.String()).Msg("backend transition")
	}
	choice := s.capturer
	s.cached = CacheEmpty
	return Decision{Choice: choice}
}

// OnCaptureResult is spec.md §4.5's tail: the asynchronous
// capture-result callback re-checks for a transition before forwarding
// a frame to the consumer.
func (s *CaptureBackendSelector) OnCaptureResult(frame Frame, result Result, err error) (Frame, Result, error) {
	if s.workerChanged() {
		s.cached = CacheTrue
		s.cached = CacheEmpty
		return Frame{}, ResultErrorTemporary, nil
	}
	return frame, result, err
}

func (s *CaptureBackendSelector) workerChanged() bool {
	if s.worker == nil {
		return false
	}
	return s.worker.IsChanged(TopOfMeChangedWindowMs)
}

// shouldUseScreenCapturer is spec.md §4.6.
func (s *CaptureBackendSelector) shouldUseScreenCapturer(ctx SelectedWindowContext) bool {
	if !s.Inspector.IsAeroEnabled() {
		// Only matters on Windows < 8; modern Windows cannot disable
		// composition, so this never refuses there.
		return false
	}
	if !s.Inspector.IsVisibleOnCurrentDesktop(ctx.Handle) {
		return false
	}

	if s.Inspector.IsLayered(ctx.Handle) {
		layered := s.Inspector.LayeredAttributes(ctx.Handle)
		if !layered.IsOpaque() {
			return false
		}
	}

	if s.windowRegionRect.IsEmpty() {
		return false
	}

	contentRect, ok := s.Inspector.ContentRect(ctx.Handle)
	if !ok {
		return false
	}

	region := s.Inspector.WindowRegion(ctx.Handle)
	switch region.Kind {
	case RegionComplex:
		return false
	case RegionSimple:
		translated := region.Box.Translate(s.windowRegionRect.Left, s.windowRegionRect.Top)
		s.windowRegionRect = s.windowRegionRect.Intersect(translated)
		contentRect = contentRect.Intersect(translated)
	}

	full := s.Inspector.FullscreenRect()
	if !full.Contains(contentRect) {
		return false
	}

	var coreWindows []WindowHandle
	if s.worker != nil {
		// CoreWindows rendezvous-waits for a completed scan, per
		// spec.md §4.4 synchronization contract, so the OcclusionScanner's
		// core-window pre-filter below sees a snapshot taken after this
		// call.
		coreWindows = s.worker.CoreWindows()
	}
	return s.scanner.IsTopWindowWithCoreWindows(ctx, coreWindows)
}
