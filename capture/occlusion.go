package capture

import "github.com/kirides/wincrop/internal/logger"

var occlusionLog = logger.WithComponent("capture/occlusion")

// CoreWindowCoreClass is the modern-app core-window class name, the
// real content surface behind a UWP frame host.
const CoreWindowCoreClass = "Windows.UI.Core.CoreWindow"

// OcclusionScanner decides whether the selected window is the top-most
// non-ignored window intersecting its content rectangle (spec.md §4.3).
type OcclusionScanner struct {
	Inspector       WindowInspector
	ExcludedWindow  WindowHandle
	AllowUWPCapture bool
}

// IsTopWindow runs the scan without any CoreWindowsSet pre-filter; see
// IsTopWindowWithCoreWindows for the variant that consults one.
func (s OcclusionScanner) IsTopWindow(ctx SelectedWindowContext) bool {
	if !ctx.IsSelectedWindowValid() {
		occlusionLog.Warn().Msg("occlusion scan failed: selected window is no longer valid")
		return false
	}
	return s.isTopWindow(ctx, nil)
}

// IsTopWindowWithCoreWindows is IsTopWindow plus the CoreWindowsSet
// pre-filter described in spec.md §4.3. coreWindows is the
// TopOfMeWorker's live CoreWindowsSet, consulted first because those
// windows are not reliably visited by EnumerateRootWindows.
func (s OcclusionScanner) IsTopWindowWithCoreWindows(ctx SelectedWindowContext, coreWindows []WindowHandle) bool {
	if !ctx.IsSelectedWindowValid() {
		occlusionLog.Warn().Msg("occlusion scan failed: selected window is no longer valid")
		return false
	}
	for _, h := range coreWindows {
		if ctx.IsWindowOverlapping(s.Inspector, h) {
			occlusionLog.Debug().Uint64("handle", uint64(h)).Msg("occluded by a tracked core window")
			return false
		}
	}
	return s.isTopWindow(ctx, nil)
}

func (s OcclusionScanner) isTopWindow(ctx SelectedWindowContext, _ []WindowHandle) bool {
	isTop := false
	stopped := false

	visit := func(h WindowHandle) bool {
		switch {
		case ctx.IsWindowSelected(h):
			isTop = true
			stopped = true
			return false
		case h == s.ExcludedWindow:
			return true
		case !s.Inspector.IsVisibleOnCurrentDesktop(h):
			return true
		case s.Inspector.IsChromeNotification(h):
			return true
		case ctx.IsWindowOwned(s.Inspector, h):
			return true
		case s.AllowUWPCapture && ctx.IsUWPAncestor(s.Inspector, h):
			return true
		case s.AllowUWPCapture && s.Inspector.ClassName(h) == CoreWindowCoreClass:
			return true
		case ctx.IsWindowOverlapping(s.Inspector, h):
			isTop = false
			stopped = true
			occlusionLog.Debug().Uint64("handle", uint64(h)).Msg("selected window occluded")
			return false
		default:
			return true
		}
	}

	s.Inspector.EnumerateRootWindows(visit)

	// Post-pass: the same predicate over the selection's own descendant
	// windows. Children that satisfy IsWindowOwned are skipped here too,
	// but a child of the selection from another thread and process (no
	// owner link) is flagged as an occluder, even though the root-down
	// walk above never visits child windows at all — the upstream
	// behavior this mirrors is internally inconsistent (spec.md §9 open
	// question) and is preserved as-is.
	if stopped && !isTop {
		return isTop
	}
	childStopped := false
	childVisit := func(h WindowHandle) bool {
		switch {
		case h == s.ExcludedWindow:
			return true
		case !s.Inspector.IsVisibleOnCurrentDesktop(h):
			return true
		case s.Inspector.IsChromeNotification(h):
			return true
		case ctx.IsWindowOwned(s.Inspector, h):
			return true
		case s.AllowUWPCapture && ctx.IsUWPAncestor(s.Inspector, h):
			return true
		case s.AllowUWPCapture && s.Inspector.ClassName(h) == CoreWindowCoreClass:
			return true
		case ctx.IsWindowOverlapping(s.Inspector, h):
			isTop = false
			childStopped = true
			return false
		default:
			return true
		}
	}
	s.Inspector.EnumerateChildWindows(ctx.Handle, childVisit)
	_ = childStopped
	return isTop
}
