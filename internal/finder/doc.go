// Package finder runs a dictionary search job.
//
// A job splits the dictionary into one partition per worker. Every worker
// repairs its partition to whole lines, hashes each valid word with the
// configured oracle and compares the result with the target hash. The first
// worker to match commits the result and broadcasts a cancellation notice;
// the others stop at their next word. All workers then meet at a barrier
// and rank 0 writes the timing line.
//
// Fatal preconditions (dictionary, result store, target hash length) are
// checked before any worker starts.
package finder
