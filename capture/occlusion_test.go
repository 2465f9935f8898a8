package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestOcclusionScannerLoneWindow is spec.md §8 scenario 1: nothing else
// visible, selected window must be reported top-most.
func TestOcclusionScannerLoneWindow(t *testing.T) {
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	fi := newFakeInspector(selected)
	ctx := NewSelectedWindowContext(fi, 1)
	scanner := OcclusionScanner{Inspector: fi}

	assert.True(t, scanner.IsTopWindow(ctx), "a lone visible window must be top-most")
}

// TestOcclusionScannerOccludedByForeignWindow is spec.md §8 scenario 2.
func TestOcclusionScannerOccludedByForeignWindow(t *testing.T) {
	foreign := fakeWindow{handle: 2, class: "Notepad", visible: true,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	// foreign appears first: it is above the selected window in z-order.
	fi := newFakeInspector(foreign, selected)
	ctx := NewSelectedWindowContext(fi, 1)
	scanner := OcclusionScanner{Inspector: fi}

	assert.False(t, scanner.IsTopWindow(ctx), "an occluding foreign window must make the selection not top-most")
}

// TestOcclusionScannerSkipsOwnPopup is spec.md §8 scenario 4: an owned
// dropdown popup overlapping the selection must be skipped, not treated
// as an occluder.
func TestOcclusionScannerSkipsOwnPopup(t *testing.T) {
	popup := fakeWindow{handle: 2, class: "#32768", visible: true, owner: 1,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	fi := newFakeInspector(popup, selected)
	ctx := NewSelectedWindowContext(fi, 1)
	scanner := OcclusionScanner{Inspector: fi}

	assert.True(t, scanner.IsTopWindow(ctx), "an own dropdown popup must be skipped, leaving the selection top-most")
}

func TestOcclusionScannerExcludedWindowSkipped(t *testing.T) {
	ownUI := fakeWindow{handle: 2, class: "PreviewWnd", visible: true,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	fi := newFakeInspector(ownUI, selected)
	ctx := NewSelectedWindowContext(fi, 1)
	scanner := OcclusionScanner{Inspector: fi, ExcludedWindow: 2}

	assert.True(t, scanner.IsTopWindow(ctx), "the configured excluded window must never count as an occluder")
}

func TestOcclusionScannerHiddenWindowNotOccluder(t *testing.T) {
	hidden := fakeWindow{handle: 2, class: "Notepad", visible: false,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	fi := newFakeInspector(hidden, selected)
	ctx := NewSelectedWindowContext(fi, 1)
	scanner := OcclusionScanner{Inspector: fi}

	assert.True(t, scanner.IsTopWindow(ctx), "an invisible window must never count as an occluder")
}

// TestOcclusionScannerOwnChildInconsistency documents the spec §9 open
// question: isTopWindow's descendant post-pass walks
// EnumerateChildWindows(ctx.Handle, ...) with the same top-window
// predicate as the root-down walk, so a literal child of the selected
// window that isn't owned by it (distinct thread and process, no
// ancestor-owner-root link — e.g. a hosted control from another
// process) gets flagged as an occluder purely by virtue of being
// enumerated there, even though the root-down walk never visits it at
// all (it isn't a root window). This is preserved as specified rather
// than "fixed" — see DESIGN.md's Open Questions.
func TestOcclusionScannerOwnChildInconsistency(t *testing.T) {
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	foreignChild := fakeWindow{handle: 2, class: "ActiveXHost", visible: true, parent: 1, pid: 200, tid: 20,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	fi := newFakeInspector(selected, foreignChild)
	ctx := NewSelectedWindowContext(fi, 1)
	scanner := OcclusionScanner{Inspector: fi}

	assert.False(t, scanner.IsTopWindow(ctx), "a non-owned literal child of the selected window must be flagged an occluder by the descendant post-pass")
}
