package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectedWindowContextInvalidWhenThreadZero(t *testing.T) {
	var c SelectedWindowContext
	assert.False(t, c.IsSelectedWindowValid(), "zero-value context must be invalid")
	assert.False(t, c.IsWindowSelected(1), "predicates on an invalid context must short-circuit to false")
	assert.False(t, c.IsWindowOwned(nil, 1), "predicates on an invalid context must short-circuit to false")
}

// TestIsWindowOwnedCoversAncestorOwnerRoot is spec.md P2: every window W
// with ancestor_owner_root(W) == S is owned.
func TestIsWindowOwnedCoversAncestorOwnerRoot(t *testing.T) {
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Right: 800, Bottom: 600}}
	dialog := fakeWindow{handle: 2, class: "#32770", visible: true, pid: 999, tid: 999, owner: 1}
	fi := newFakeInspector(selected, dialog)

	ctx := NewSelectedWindowContext(fi, 1)
	assert.True(t, ctx.IsWindowOwned(fi, 2), "dialog owned by the selected window must report IsWindowOwned == true")
}

func TestIsWindowOwnedCoversSameThreadAndProcess(t *testing.T) {
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Right: 800, Bottom: 600}}
	tooltip := fakeWindow{handle: 2, class: "tooltips_class32", visible: true, pid: 100, tid: 10}
	fi := newFakeInspector(selected, tooltip)

	ctx := NewSelectedWindowContext(fi, 1)
	assert.True(t, ctx.IsWindowOwned(fi, 2), "a same-thread/process tooltip must report IsWindowOwned == true even without a formal owner link")
}

func TestIsUWPAncestorRespectsCaptionBit(t *testing.T) {
	selected := fakeWindow{handle: 1, class: "ApplicationFrameWindow", visible: true, pid: 100, tid: 10,
		content: Rect{Right: 800, Bottom: 600}}
	frameHost := fakeWindow{handle: 2, class: "Windows.UI.Core.CoreWindow", visible: true, parent: 1}
	child := fakeWindow{handle: 3, class: "DirectUIHWND", visible: true, parent: 2}
	captionedChild := fakeWindow{handle: 4, class: "Independent", visible: true, parent: 2, captioned: true}
	fi := newFakeInspector(selected, frameHost, child, captionedChild)

	ctx := NewSelectedWindowContext(fi, 1)
	assert.True(t, ctx.IsUWPAncestor(fi, 3), "window whose ancestor chain reaches the selected window uncaptioned must be treated as a UWP descendant")
	assert.False(t, ctx.IsUWPAncestor(fi, 4), "a captioned window must be treated as independent, not a UWP descendant")
}

func TestIsWindowOverlappingDelegatesToInspector(t *testing.T) {
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	overlapping := fakeWindow{handle: 2, class: "Notepad", visible: true,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	distant := fakeWindow{handle: 3, class: "Notepad", visible: true,
		content: Rect{Left: 1500, Top: 900, Right: 1800, Bottom: 1000}}
	fi := newFakeInspector(selected, overlapping, distant)

	ctx := NewSelectedWindowContext(fi, 1)
	assert.True(t, ctx.IsWindowOverlapping(fi, 2), "overlapping window must report true")
	assert.False(t, ctx.IsWindowOverlapping(fi, 3), "distant window must report false")
}
