// Package wordlist defines which dictionary words are acceptable password
// candidates.
//
// The same predicate gates the dictionary scanner and the single-word
// encrypter, so a word the encrypter refuses is never hashed during a search
// either.
package wordlist
