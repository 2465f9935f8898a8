package capture

// fakeBackend is a minimal Backend used to test CroppingCoordinator
// without a real GDI/DXGI pixel source.
type fakeBackend struct {
	name    string
	frame   Frame
	result  Result
	err     error
	selects int
}

func (b *fakeBackend) Start() error { return nil }

func (b *fakeBackend) SelectSource(WindowHandle) error {
	b.selects++
	return nil
}

func (b *fakeBackend) CaptureFrame() (Frame, Result, error) {
	return b.frame, b.result, b.err
}

func (b *fakeBackend) Name() string { return b.name }

var _ Backend = (*fakeBackend)(nil)
