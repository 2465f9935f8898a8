package capture

import "time"

// ChangeTimestamp is a monotonic millisecond clock reading, used for the
// debounce intervals in TopOfMeWorker and CaptureBackendSelector
// (analogous to webrtc::TimeMillis()/rtc::Time32 in the original).
type ChangeTimestamp int64

var clockStart = time.Now()

// NowMs returns the current monotonic time in milliseconds since the
// capture package was first used.
func NowMs() ChangeTimestamp {
	return ChangeTimestamp(time.Since(clockStart).Milliseconds())
}

// ElapsedMs returns how many milliseconds have passed since t.
func ElapsedMs(t ChangeTimestamp) int64 {
	return int64(NowMs() - t)
}
