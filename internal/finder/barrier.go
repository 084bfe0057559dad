package finder

import "sync"

// barrier is a single-use rendezvous for a fixed number of parties.
type barrier struct {
	wg sync.WaitGroup
}

func newBarrier(parties int) *barrier {
	b := &barrier{}
	b.wg.Add(parties)
	return b
}

// Wait blocks until every party has called Wait. Calling it more than
// once per party panics.
func (b *barrier) Wait() {
	b.wg.Done()
	b.wg.Wait()
}
