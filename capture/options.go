package capture

// Options configures a CroppingCoordinator (spec.md §5).
type Options struct {
	// AllowUWPWindowCapture starts the TopOfMeWorker, makes the occlusion
	// scan skip modern-app (UWP) descendants and core windows of the
	// selection, and lets GetSourceList keep ApplicationFrameWindow hosts
	// that contain a core window. Default false.
	AllowUWPWindowCapture bool

	// ExcludedWindow, when non-zero, is never treated as an occluder —
	// used to keep a capture-preview window of the capturing app itself
	// out of its own occlusion scan.
	ExcludedWindow WindowHandle

	// DetectUpdatedRegion is carried through configuration for an
	// external frame-diffing layer; no backend in this module reads it,
	// and no change detection is performed here.
	DetectUpdatedRegion bool
}

// DefaultOptions returns the spec's baseline configuration.
func DefaultOptions() Options {
	return Options{}
}
