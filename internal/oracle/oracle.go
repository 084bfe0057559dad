package oracle

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultName is the oracle used when none is configured.
const DefaultName = "descrypt"

var (
	// ErrUnknownOracle is returned by Get for an unregistered name.
	ErrUnknownOracle = errors.New("unknown oracle")

	// ErrInvalidSalt is returned when the salt argument cannot be used.
	ErrInvalidSalt = errors.New("invalid salt")
)

// Oracle is a deterministic one-way password hash.
type Oracle interface {
	// Name returns the registry name.
	Name() string

	// HashLen returns the fixed length of every hash this oracle produces.
	HashLen() int

	// Hash hashes word with the salt carried by saltOrHash. Passing a hash
	// produced by this oracle reuses its salt, so Hash(w, Hash(w, s)) equals
	// Hash(w, s).
	Hash(word, saltOrHash string) (string, error)
}

var registry = map[string]Oracle{}

// Register adds o to the registry, replacing any oracle with the same name.
func Register(o Oracle) {
	registry[o.Name()] = o
}

// Get returns the oracle registered under name.
func Get(name string) (Oracle, error) {
	if o, ok := registry[name]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownOracle, name, Names())
}

// Names returns the registered oracle names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(DESCrypt{})
	Register(SHA3{})
}

// cryptAlphabet is the 64-character alphabet of crypt(3) salts and hashes.
const cryptAlphabet = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// saltValue returns the 6-bit value of a crypt alphabet character.
func saltValue(c byte) (int, bool) {
	switch {
	case c == '.' || c == '/':
		return int(c - '.'), true
	case c >= '0' && c <= '9':
		return int(c-'0') + 2, true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 12, true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 38, true
	default:
		return 0, false
	}
}
