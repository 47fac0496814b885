package output

import (
	"fmt"
	"io"
	"sync"
)

// Progress reports files committed out of a known total, one line per file:
//
//	[2/6] web01-Snapshot2.vmsn 8.2 KB
type Progress struct {
	w     io.Writer
	title string
	total int
	done  int
	bytes int64
	mu    sync.Mutex
}

// NewProgress creates a progress reporter for total files. A nil writer
// discards output.
func NewProgress(w io.Writer, title string, total int) *Progress {
	if w == nil {
		w = io.Discard
	}
	return &Progress{w: w, title: title, total: total}
}

// File records one finished file of n bytes.
func (p *Progress) File(name string, n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.bytes += n
	fmt.Fprintf(p.w, "[%d/%d] %s %s\n", p.done, p.total, name, FormatBytes(n))
}

// Finish prints the totals.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s: %d of %d files, %s\n", p.title, p.done, p.total, FormatBytes(p.bytes))
}

// Done returns files and bytes recorded so far.
func (p *Progress) Done() (int, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.bytes
}
