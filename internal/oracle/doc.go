// Package oracle provides the one-way password hash functions used to test
// dictionary candidates.
//
// An Oracle maps a word and a salt-carrying string (either a bare salt or a
// previously produced hash) to a fixed-length hash string. Oracles are looked
// up by name from a registry; "descrypt", the traditional Unix crypt(3)
// scheme producing 13 characters, is the default.
package oracle
