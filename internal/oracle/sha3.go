package oracle

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	sha3Prefix  = "$sha3$"
	sha3SaltLen = 8
)

// cryptEncoding encodes digests with the crypt alphabet, without padding.
var cryptEncoding = base64.NewEncoding(cryptAlphabet).WithPadding(base64.NoPadding)

// SHA3 is a salted SHA3-256 scheme: "$sha3$" + 8 salt characters + "$" +
// the 43-character digest of salt+word.
type SHA3 struct{}

// Name implements Oracle.
func (SHA3) Name() string {
	return "sha3"
}

// HashLen implements Oracle.
func (SHA3) HashLen() int {
	return len(sha3Prefix) + sha3SaltLen + 1 + cryptEncoding.EncodedLen(32)
}

// Hash implements Oracle. saltOrHash is either a previous sha3 hash or a
// bare salt of which the first 8 characters are used.
func (SHA3) Hash(word, saltOrHash string) (string, error) {
	salt := strings.TrimPrefix(saltOrHash, sha3Prefix)
	if len(salt) < sha3SaltLen {
		return "", fmt.Errorf("%w: sha3 needs %d salt characters, got %d", ErrInvalidSalt, sha3SaltLen, len(salt))
	}
	salt = salt[:sha3SaltLen]
	for i := 0; i < len(salt); i++ {
		if _, ok := saltValue(salt[i]); !ok {
			return "", fmt.Errorf("%w: %q is not a crypt salt character", ErrInvalidSalt, salt[i])
		}
	}

	sum := sha3.Sum256([]byte(salt + word))
	return sha3Prefix + salt + "$" + cryptEncoding.EncodeToString(sum[:]), nil
}
