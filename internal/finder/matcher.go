package finder

import (
	"github.com/nao1215/pwdfinder/internal/oracle"
)

// Matcher compares the oracle output of candidate words with a target hash.
type Matcher struct {
	oracle oracle.Oracle
	target string
}

// NewMatcher creates a Matcher for target.
func NewMatcher(o oracle.Oracle, target string) *Matcher {
	return &Matcher{oracle: o, target: target}
}

// Match reports whether word hashes to the target. The target doubles as
// the salt source, as crypt(3) does.
func (m *Matcher) Match(word string) (bool, error) {
	got, err := m.oracle.Hash(word, m.target)
	if err != nil {
		return false, err
	}
	return got == m.target, nil
}
