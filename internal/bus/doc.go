// Package bus carries the "password found, stop scanning" notice between the
// workers of one search job.
//
// A Bus supports exactly two events: a worker checks, without blocking,
// whether a peer has signalled completion, and a worker that found the
// password notifies every peer. Notices are fire-and-forget: there are no
// acknowledgments and no retries.
//
// Two transports are provided. Local uses one buffered mailbox channel per
// worker. Redis uses a pub/sub channel per job, so that a notice can also
// come from outside the process.
package bus
