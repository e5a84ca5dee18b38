package testutils

import "fmt"

// FatalRecorder implements ports.Failer for tests exercising failure paths.
// Fatalf records the formatted message and panics with a private sentinel so
// the chain stops exactly where testing.T.Fatalf would have stopped it.
type FatalRecorder struct {
	Failed  bool
	Message string
}

type abort struct{}

// Fatalf records the failure and aborts the calling chain.
func (r *FatalRecorder) Fatalf(format string, args ...any) {
	r.Failed = true
	r.Message = fmt.Sprintf(format, args...)
	panic(abort{})
}

// Capture runs fn and swallows the abort raised by Fatalf, letting the test
// inspect Failed/Message afterwards. Unrelated panics are re-raised.
func (r *FatalRecorder) Capture(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			if _, ok := rec.(abort); !ok {
				panic(rec)
			}
		}
	}()
	fn()
}
