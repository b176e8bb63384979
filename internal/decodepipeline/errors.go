package decodepipeline

import "errors"

// Sentinel error kinds, one per spec.md §7 failure kind. Stop/GetVideo/
// GetAudio never surface these. ErrOpenFailure is returned by Start; the
// others are only observable through Handle.HadError/Handle.Err once
// IsDecoding has gone false.
var (
	// ErrOpenFailure means the byte source could not be opened.
	ErrOpenFailure = errors.New("decodepipeline: could not open input")

	// ErrBootstrapFailure covers: no recognised substream, malformed
	// headers, unsupported pixel format, unreasonable frame dimensions,
	// or EOF before headers complete.
	ErrBootstrapFailure = errors.New("decodepipeline: stream bootstrap failed")

	// ErrAllocFailure means an output item could not be built.
	ErrAllocFailure = errors.New("decodepipeline: allocation failed")

	// ErrDecodeFailure means the codec rejected a packet mid-stream.
	ErrDecodeFailure = errors.New("decodepipeline: codec rejected packet")
)

// stageError wraps a sentinel with the detail that triggered it, the way
// the teacher's pipeline/core.StageError wraps a stage error with context.
type stageError struct {
	kind error
	msg  string
}

func (e *stageError) Error() string {
	if e.msg == "" {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.msg
}

func (e *stageError) Unwrap() error {
	return e.kind
}

func wrapErr(kind error, msg string) error {
	return &stageError{kind: kind, msg: msg}
}
