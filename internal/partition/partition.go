package partition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultOverlap is the number of bytes read past a nominal boundary.
const DefaultOverlap = 100

var (
	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid worker count: must be positive")

	// ErrInvalidRank is returned when the rank is outside 0..workers-1.
	ErrInvalidRank = errors.New("invalid rank")

	// ErrInvalidOverlap is returned when the overlap is not positive.
	ErrInvalidOverlap = errors.New("invalid overlap: must be positive")

	// ErrInvalidSize is returned for a negative file size.
	ErrInvalidSize = errors.New("invalid file size: must be non-negative")
)

// Partition describes the byte range owned by one worker.
// All offsets are absolute and inclusive.
type Partition struct {
	// Rank identifies the owning worker, 0..Workers-1.
	Rank int

	// Workers is the size of the pool the file was split for.
	Workers int

	// Size is the file size every worker agreed on.
	Size int64

	// Start is the first byte of the nominal range.
	Start int64

	// LogicalEnd is the last byte of the nominal range.
	// It is Start-1 when the nominal range is empty.
	LogicalEnd int64

	// ReadEnd is the last byte read up front: LogicalEnd plus the overlap,
	// capped at the end of the file. Equal to LogicalEnd for the last rank.
	ReadEnd int64

	// IsLast is true for rank Workers-1, which owns the tail of the file.
	IsLast bool

	// Overlap is the delta used for ReadEnd and for any further reads
	// needed to locate the boundary line separator.
	Overlap int64
}

// Compute returns the partition for rank out of workers over a file of size bytes.
func Compute(size int64, workers, rank int, overlap int64) (Partition, error) {
	if size < 0 {
		return Partition{}, ErrInvalidSize
	}
	if workers <= 0 {
		return Partition{}, ErrInvalidWorkers
	}
	if rank < 0 || rank >= workers {
		return Partition{}, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidRank, rank, workers)
	}
	if overlap <= 0 {
		return Partition{}, ErrInvalidOverlap
	}

	chunk := size / int64(workers)
	p := Partition{
		Rank:    rank,
		Workers: workers,
		Size:    size,
		Start:   int64(rank) * chunk,
		IsLast:  rank == workers-1,
		Overlap: overlap,
	}
	p.LogicalEnd = p.Start + chunk - 1
	if p.IsLast {
		p.LogicalEnd = size - 1
	}

	p.ReadEnd = p.LogicalEnd
	if !p.IsLast {
		p.ReadEnd = min(p.LogicalEnd+overlap, size-1)
	}
	return p, nil
}

// All returns the partitions of every rank for the given pool.
func All(size int64, workers int, overlap int64) ([]Partition, error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkers
	}
	parts := make([]Partition, workers)
	for r := range parts {
		p, err := Compute(size, workers, r, overlap)
		if err != nil {
			return nil, err
		}
		parts[r] = p
	}
	return parts, nil
}

// String implements fmt.Stringer.
func (p Partition) String() string {
	return fmt.Sprintf("rank %d/%d [%d, %d] read to %d", p.Rank, p.Workers, p.Start, p.LogicalEnd, p.ReadEnd)
}

// Chunk is the repaired, line-aligned content owned by a partition.
type Chunk struct {
	// Offset is the absolute position of Data[0] in the file.
	Offset int64

	// Data holds whole lines only. It is empty when the partition owns no line.
	Data []byte
}

// Len returns the number of owned bytes.
func (c Chunk) Len() int {
	return len(c.Data)
}

// Window holds the raw bytes a worker read for its partition: the nominal
// range, the overlap and, for ranks other than 0, the one byte before Start.
type Window struct {
	src  io.ReaderAt
	p    Partition
	base int64
	buf  []byte
}

// Read performs the worker's range read.
func Read(src io.ReaderAt, p Partition) (*Window, error) {
	base := p.Start
	if p.Rank > 0 && base > 0 {
		// The byte before Start tells whether a line begins exactly at Start.
		base--
	}

	n := p.ReadEnd + 1 - base
	if n < 0 {
		n = 0
	}
	buf := make([]byte, n)
	if err := readFull(src, buf, base); err != nil {
		return nil, fmt.Errorf("failed to read bytes [%d, %d]: %w", base, p.ReadEnd, err)
	}

	return &Window{src: src, p: p, base: base, buf: buf}, nil
}

// Trim repairs the window to whole lines and returns the owned chunk.
// It may issue further overlap-sized reads when the boundary line does not
// end inside the window.
func (w *Window) Trim() (Chunk, error) {
	lo, err := w.lineStart(w.p.Start)
	if err != nil {
		return Chunk{}, err
	}

	hi := w.p.Size
	if !w.p.IsLast {
		hi, err = w.lineStart(w.p.LogicalEnd + 1)
		if err != nil {
			return Chunk{}, err
		}
	}

	if lo >= hi {
		return Chunk{Offset: lo}, nil
	}
	return Chunk{Offset: lo, Data: w.buf[lo-w.base : hi-w.base]}, nil
}

// Load reads and trims the partition in one call.
func Load(src io.ReaderAt, p Partition) (Chunk, error) {
	w, err := Read(src, p)
	if err != nil {
		return Chunk{}, err
	}
	return w.Trim()
}

// lineStart returns the absolute offset of the first line that starts at or
// after pos. A line starts at 0 and right after every separator. Returns
// Size when no line starts at or after pos.
func (w *Window) lineStart(pos int64) (int64, error) {
	if pos <= 0 {
		return 0, nil
	}
	if pos >= w.p.Size {
		return w.p.Size, nil
	}

	// A line starts at pos iff byte pos-1 is a separator.
	from := pos - 1
	for {
		end := w.base + int64(len(w.buf))
		if from < end {
			if i := bytes.IndexByte(w.buf[from-w.base:], '\n'); i >= 0 {
				return from + int64(i) + 1, nil
			}
			from = end
		}
		if end >= w.p.Size {
			return w.p.Size, nil
		}
		if err := w.extend(); err != nil {
			return 0, err
		}
	}
}

// extend appends the next overlap-sized block of the file to the window.
func (w *Window) extend() error {
	off := w.base + int64(len(w.buf))
	n := min(w.p.Overlap, w.p.Size-off)
	if n <= 0 {
		return nil
	}
	more := make([]byte, n)
	if err := readFull(w.src, more, off); err != nil {
		return fmt.Errorf("failed to read bytes [%d, %d]: %w", off, off+n-1, err)
	}
	w.buf = append(w.buf, more...)
	return nil
}

// readFull fills buf from src at off. A short read is an error even when
// the reader reports io.EOF, since the caller sized buf from the file size.
func readFull(src io.ReaderAt, buf []byte, off int64) error {
	if len(buf) == 0 {
		return nil
	}
	n, err := src.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}
