// Package scanner turns a worker's line-aligned chunk into password candidates.
//
// A Scanner yields candidates lazily, one per dictionary line, and cannot be
// rewound. Lines failing the wordlist predicate are handed to a reject
// handler and never returned.
package scanner
