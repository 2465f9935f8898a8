package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCoordinator(fi *fakeInspector, hwnd WindowHandle) (*CroppingCoordinator, *fakeBackend, *fakeBackend) {
	screen := &fakeBackend{name: "screen", result: ResultSuccess, frame: Frame{Width: 800, Height: 600}}
	window := &fakeBackend{name: "window", result: ResultSuccess, frame: Frame{Width: 800, Height: 600}}
	c := NewCroppingCoordinator(fi, Options{}, screen, window)
	return c, screen, window
}

func TestSelectSourceRejectsInvalidHandle(t *testing.T) {
	fi := newFakeInspector()
	c, _, _ := buildCoordinator(fi, 0)
	assert.Error(t, c.SelectSource(999))
}

func TestSelectSourceRejectsMinimizedWindow(t *testing.T) {
	fi := newFakeInspector(fakeWindow{handle: 1, class: "MainWnd", visible: true, minimized: true,
		content: Rect{Right: 800, Bottom: 600}})
	c, _, _ := buildCoordinator(fi, 1)
	assert.Error(t, c.SelectSource(1))
}

// TestGetWindowRectInVirtualScreen is spec.md P8.
func TestGetWindowRectInVirtualScreen(t *testing.T) {
	w := fakeWindow{
		handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		rect:    Rect{Left: 100, Top: 100, Right: 900, Bottom: 700},
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700},
		region:  WindowRegion{Kind: RegionNone},
	}
	fi := newFakeInspector(w)
	c, _, _ := buildCoordinator(fi, 1)
	require.NoError(t, c.SelectSource(1))

	got, ok := c.GetWindowRectInVirtualScreen()
	require.True(t, ok, "expected a valid cropped rect")
	want := w.content.Intersect(fi.FullscreenRect())
	assert.Equal(t, want, got)
}

func TestCaptureFrameRequiresSelection(t *testing.T) {
	fi := newFakeInspector()
	c, _, _ := buildCoordinator(fi, 0)
	_, result, err := c.CaptureFrame()
	assert.Equal(t, ResultErrorPermanent, result)
	assert.Error(t, err)
}

func TestCaptureFrameDelegatesToWindowBackendWhenOccluded(t *testing.T) {
	occluder := fakeWindow{handle: 2, class: "Notepad", visible: true,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		rect:    Rect{Left: 100, Top: 100, Right: 900, Bottom: 700},
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700},
		region:  WindowRegion{Kind: RegionSimple, Box: Rect{Right: 800, Bottom: 600}},
	}
	fi := newFakeInspector(occluder, selected)
	c, screen, window := buildCoordinator(fi, 1)
	require.NoError(t, c.SelectSource(1))

	frame, result, err := c.CaptureFrame()
	require.NoError(t, err)
	require.Equal(t, ResultSuccess, result, "CaptureFrame() frame=%+v", frame)

	assert.NotZero(t, window.selects, "expected the window backend to have been selected")
	assert.Zero(t, screen.selects, "the screen backend should not be used while occluded")
}
