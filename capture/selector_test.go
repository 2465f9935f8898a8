package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loneWindowInspector(layered bool, layeredInfo LayeredInfo) (*fakeInspector, WindowHandle) {
	w := fakeWindow{
		handle:  1,
		class:   "MainWnd",
		visible: true,
		pid:     100,
		tid:     10,
		rect:    Rect{Left: 100, Top: 100, Right: 900, Bottom: 700},
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700},
		region:  WindowRegion{Kind: RegionSimple, Box: Rect{Right: 800, Bottom: 600}},
		layered: layered, layeredInfo: layeredInfo,
	}
	return newFakeInspector(w), 1
}

// TestShouldUseScreenCapturerLoneWindow covers the baseline scenario
// from spec.md §8 scenario 1.
func TestShouldUseScreenCapturerLoneWindow(t *testing.T) {
	fi, hwnd := loneWindowInspector(false, LayeredInfo{})
	ctx := NewSelectedWindowContext(fi, hwnd)
	sel := NewCaptureBackendSelector(fi, Options{})

	d := sel.Decide(ctx)
	require.False(t, d.Drop)
	assert.Equal(t, BackendScreen, d.Choice)
}

// TestShouldUseScreenCapturerLayeredRefusal is spec.md P3.
func TestShouldUseScreenCapturerLayeredRefusal(t *testing.T) {
	fi, hwnd := loneWindowInspector(true, LayeredInfo{Readable: false})
	ctx := NewSelectedWindowContext(fi, hwnd)
	sel := NewCaptureBackendSelector(fi, Options{})

	d := sel.Decide(ctx)
	require.False(t, d.Drop)
	assert.Equal(t, BackendWindow, d.Choice, "a layered window must refuse ScreenGrab")
}

// TestCaptureBackendSelectorHysteresis is spec.md P7: a Window→Screen
// transition sleeps ~34ms and drops the transition frame.
func TestCaptureBackendSelectorHysteresis(t *testing.T) {
	fi, hwnd := loneWindowInspector(false, LayeredInfo{})
	ctx := NewSelectedWindowContext(fi, hwnd)
	sel := NewCaptureBackendSelector(fi, Options{})

	var slept time.Duration
	sel.sleep = func(d time.Duration) { slept = d }
	sel.capturer = BackendWindow // simulate a previous frame captured via WindowGrab

	d := sel.Decide(ctx)
	assert.True(t, d.Drop)
	assert.True(t, d.DropIsTimed)
	assert.Equal(t, transitionHysteresisSleep, slept)
	assert.Equal(t, BackendScreen, sel.capturer)

	slept = 0
	d = sel.Decide(ctx)
	assert.False(t, d.Drop)
	assert.Equal(t, BackendScreen, d.Choice)
	assert.Zero(t, slept, "no extra sleep expected on a steady-state Screen frame")
}

func TestCaptureBackendSelectorResetClearsState(t *testing.T) {
	fi, hwnd := loneWindowInspector(false, LayeredInfo{})
	ctx := NewSelectedWindowContext(fi, hwnd)
	sel := NewCaptureBackendSelector(fi, Options{})
	sel.Decide(ctx)
	require.NotEqual(t, BackendUnknown, sel.capturer, "expected capturer to be set after a decision")

	sel.Reset()
	assert.Equal(t, BackendUnknown, sel.capturer)
	assert.Equal(t, CacheEmpty, sel.cached)
}
