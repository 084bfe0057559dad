package scanner

import (
	"bytes"
	"fmt"

	"github.com/nao1215/pwdfinder/internal/partition"
	"github.com/nao1215/pwdfinder/internal/wordlist"
)

// Candidate is a single dictionary word.
type Candidate struct {
	// Text is the word without its line terminator.
	Text string

	// Length is the word length in bytes.
	Length int

	// Validity is the wordlist verdict for Text.
	Validity wordlist.Validity

	// Offset is the absolute file offset of the first byte of the word.
	Offset int64
}

// Diagnostic returns the human-readable line reported for a skipped word.
func (c Candidate) Diagnostic() string {
	return fmt.Sprintf("Input string %s is missed (%s)", c.Text, c.Validity)
}

// Scanner iterates over the lines of a chunk.
// A Scanner is not safe for concurrent use; each worker owns its own.
type Scanner struct {
	data     []byte
	base     int64
	pos      int
	onReject func(Candidate)

	accepted int
	rejected int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRejectHandler sets the function called for every rejected word.
func WithRejectHandler(fn func(Candidate)) Option {
	return func(s *Scanner) {
		s.onReject = fn
	}
}

// New creates a Scanner over the chunk's data.
func New(chunk partition.Chunk, opts ...Option) *Scanner {
	s := &Scanner{
		data: chunk.Data,
		base: chunk.Offset,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next valid candidate. It returns false once the chunk
// is exhausted, and keeps returning false afterwards.
//
// Lines are separated by '\n'. A trailing '\r' is dropped and empty lines
// are skipped silently.
func (s *Scanner) Next() (Candidate, bool) {
	for s.pos < len(s.data) {
		start := s.pos
		rest := s.data[start:]

		end := bytes.IndexByte(rest, '\n')
		if end < 0 {
			end = len(rest)
			s.pos = len(s.data)
		} else {
			s.pos = start + end + 1
		}

		word := rest[:end]
		if n := len(word); n > 0 && word[n-1] == '\r' {
			word = word[:n-1]
		}
		if len(word) == 0 {
			continue
		}

		c := Candidate{
			Text:     string(word),
			Length:   len(word),
			Validity: wordlist.CheckBytes(word),
			Offset:   s.base + int64(start),
		}
		if c.Validity != wordlist.OK {
			s.rejected++
			if s.onReject != nil {
				s.onReject(c)
			}
			continue
		}

		s.accepted++
		return c, true
	}
	return Candidate{}, false
}

// Accepted returns how many valid candidates Next has returned so far.
func (s *Scanner) Accepted() int {
	return s.accepted
}

// Rejected returns how many words were rejected so far.
func (s *Scanner) Rejected() int {
	return s.rejected
}

// Remaining returns the number of bytes not yet consumed.
func (s *Scanner) Remaining() int {
	return len(s.data) - s.pos
}
