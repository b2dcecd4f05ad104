package runtime

import (
	"io"
	"sync"
)

// Wraps an [io.Reader] and signals when it stops producing data.
//
// The done channel is closed exactly once on the first error, [io.EOF] or
// otherwise, making it safe to use from multiple goroutines. Non-EOF errors
// count as done: the stream is over either way, and the consumer's stdin
// must still be closed or a process reading it would wait forever.
type doneReader struct {
	r    io.Reader
	once sync.Once
	done chan struct{}
}

// Creates a new [doneReader] wrapping the given reader.
func newDoneReader(r io.Reader) *doneReader {
	return &doneReader{r: r, done: make(chan struct{})}
}

// Delegates to the underlying reader.
//
// Closes the done channel on the first error, including [io.EOF].
func (d *doneReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil {
		d.once.Do(func() { close(d.done) })
	}
	return n, err
}
