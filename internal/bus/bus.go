package bus

import (
	"errors"
	"fmt"
)

// Transport names accepted by configuration.
const (
	KindLocal = "local"
	KindRedis = "redis"
)

// ErrUnknownKind is returned for an unsupported transport name.
var ErrUnknownKind = errors.New("unknown bus kind")

// Bus is the cancellation channel shared by the workers of one job.
type Bus interface {
	// Cancelled reports whether a peer has signalled completion to rank.
	// It never blocks. Once it has returned true the caller is expected to stop.
	Cancelled(rank int) bool

	// Broadcast notifies every rank except from. It does not wait for
	// the notice to be observed.
	Broadcast(from int) error

	// Close releases transport resources.
	Close() error
}

// Local is an in-process Bus backed by channels.
type Local struct {
	mailboxes []chan int
}

// NewLocal creates a Local bus for workers ranks.
func NewLocal(workers int) *Local {
	mb := make([]chan int, workers)
	for i := range mb {
		// One slot is enough: a second notice carries no new information.
		mb[i] = make(chan int, 1)
	}
	return &Local{mailboxes: mb}
}

// Cancelled implements Bus.
func (b *Local) Cancelled(rank int) bool {
	select {
	case <-b.mailboxes[rank]:
		return true
	default:
		return false
	}
}

// Broadcast implements Bus.
func (b *Local) Broadcast(from int) error {
	if from < 0 || from >= len(b.mailboxes) {
		return fmt.Errorf("broadcast from unknown rank %d", from)
	}
	for rank, mb := range b.mailboxes {
		if rank == from {
			continue
		}
		select {
		case mb <- from:
		default:
		}
	}
	return nil
}

// Close implements Bus.
func (b *Local) Close() error {
	return nil
}
