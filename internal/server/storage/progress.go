package storage

import "io"

// ProgressFunc receives the cumulative number of bytes transferred so far.
// Implementations must tolerate frequent calls; throttling is the caller's
// concern.
type ProgressFunc func(bytesTransferred int64)

// progressReader counts bytes flowing through an io.Reader and reports the
// running total through fn.
type progressReader struct {
	r     io.Reader
	total int64
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, fn ProgressFunc) *progressReader {
	return &progressReader{r: r, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.total += int64(n)
		if p.fn != nil {
			p.fn(p.total)
		}
	}
	return n, err
}
