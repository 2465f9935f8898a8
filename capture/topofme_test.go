package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTopOfMeWorkerCoreWindowsWithoutStartReturnsImmediately(t *testing.T) {
	fi := newFakeInspector(fakeWindow{handle: 1, class: "MainWnd", visible: true,
		content: Rect{Right: 800, Bottom: 600}})
	w := NewTopOfMeWorker(fi)
	w.Bind(NewSelectedWindowContext(fi, 1))

	done := make(chan []WindowHandle, 1)
	go func() { done <- w.CoreWindows() }()

	select {
	case got := <-done:
		assert.Nil(t, got, "CoreWindows() on an unstarted worker")
	case <-time.After(time.Second):
		t.Fatalf("CoreWindows() blocked on a worker that was never started")
	}
}

// TestTopOfMeWorkerDebounce exercises the ignore-counter debounce from
// spec.md §4.4: the first topOfMeIgnoreCounter calls to IsChanged
// report false regardless of state, then real comparisons resume.
func TestTopOfMeWorkerDebounce(t *testing.T) {
	occluder := fakeWindow{handle: 2, class: "Notepad", visible: true,
		content: Rect{Left: 500, Top: 300, Right: 700, Bottom: 500}}
	selected := fakeWindow{handle: 1, class: "MainWnd", visible: true, pid: 100, tid: 10,
		content: Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}}
	fi := newFakeInspector(occluder, selected)

	w := NewTopOfMeWorker(fi)
	w.Bind(NewSelectedWindowContext(fi, 1))
	w.Start()
	defer w.Stop()

	time.Sleep(150 * time.Millisecond) // let several ~33ms ticks run

	for i := 0; i < topOfMeIgnoreCounter; i++ {
		assert.False(t, w.IsChanged(TopOfMeChangedWindowMs), "IsChanged() call %d must be debounced to false", i)
	}
	assert.True(t, w.IsChanged(TopOfMeChangedWindowMs), "IsChanged() after the ignore window must report the real (changed) state")
}

func TestTopOfMeWorkerBindResetsIgnoreCounter(t *testing.T) {
	fi := newFakeInspector(fakeWindow{handle: 1, class: "MainWnd", visible: true,
		content: Rect{Right: 800, Bottom: 600}})
	w := NewTopOfMeWorker(fi)
	ctx := NewSelectedWindowContext(fi, 1)
	w.Bind(ctx)

	for i := 0; i < topOfMeIgnoreCounter; i++ {
		w.IsChanged(TopOfMeChangedWindowMs)
	}
	w.Bind(ctx)
	assert.False(t, w.IsChanged(TopOfMeChangedWindowMs), "rebinding must restart the ignore counter")
}
