package wordlist

import (
	"errors"
	"fmt"
)

// MaxLength is the exclusive upper bound on candidate length in bytes.
// Words of MaxLength bytes or more are rejected.
const MaxLength = 40

// Punctuation lists every non-alphanumeric character a candidate may contain,
// including the space character.
const Punctuation = " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

var (
	// ErrWordTooLong is returned for words of MaxLength bytes or more.
	ErrWordTooLong = errors.New("word too long")

	// ErrWordCharset is returned for words containing a character outside
	// ASCII letters, digits and Punctuation.
	ErrWordCharset = errors.New("word contains characters outside the allowed set")
)

// Validity is the outcome of checking a single word.
type Validity int

const (
	// OK means the word may be passed to the hash oracle.
	OK Validity = iota
	// TooLong means the word is MaxLength bytes or longer.
	TooLong
	// BadChars means at least one character is outside the allowed set.
	BadChars
)

// String returns the diagnostic label used when a word is skipped.
func (v Validity) String() string {
	switch v {
	case OK:
		return "OK"
	case TooLong:
		return "Length error"
	case BadChars:
		return "Bad symbols error"
	default:
		return "Unknown error"
	}
}

// Err returns the sentinel error matching v, or nil for OK.
func (v Validity) Err() error {
	switch v {
	case OK:
		return nil
	case TooLong:
		return ErrWordTooLong
	case BadChars:
		return ErrWordCharset
	default:
		return fmt.Errorf("unknown validity %d", int(v))
	}
}

// allowed is a lookup table indexed by byte value.
var allowed = func() [256]bool {
	var t [256]bool
	for c := '0'; c <= '9'; c++ {
		t[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		t[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] = true
	}
	for i := 0; i < len(Punctuation); i++ {
		t[Punctuation[i]] = true
	}
	return t
}()

// Allowed reports whether c may appear in a candidate word.
func Allowed(c byte) bool {
	return allowed[c]
}

// Check validates a whole word. Length is checked before the character set,
// so a long word with bad characters reports TooLong.
func Check(word string) Validity {
	if len(word) >= MaxLength {
		return TooLong
	}
	for i := 0; i < len(word); i++ {
		if !allowed[word[i]] {
			return BadChars
		}
	}
	return OK
}

// CheckBytes is Check for a byte slice, without allocating a string.
func CheckBytes(word []byte) Validity {
	if len(word) >= MaxLength {
		return TooLong
	}
	for _, c := range word {
		if !allowed[c] {
			return BadChars
		}
	}
	return OK
}
