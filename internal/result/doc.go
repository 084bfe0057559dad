// Package result writes the plain-text outcome of a search job.
//
// The store receives at most one match block, written by the worker that
// found the password, followed by exactly one timing line written after all
// workers have finished. The two writes never overlap: the match is
// committed before the workers' barrier and the timing line after it.
package result
