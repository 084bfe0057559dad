package finder

import "errors"

var (
	// ErrArgumentCount is returned when the dictionary path or the target hash is missing.
	ErrArgumentCount = errors.New("wrong number of arguments")

	// ErrDictionaryOpen is returned when the dictionary cannot be opened or stat'ed.
	ErrDictionaryOpen = errors.New("cannot open dictionary")

	// ErrResultStoreOpen is returned when the result store cannot be created.
	ErrResultStoreOpen = errors.New("cannot open result store")

	// ErrHashFormat is returned when the target hash length differs from the oracle's.
	ErrHashFormat = errors.New("wrong hash length")

	// ErrWorkerFailed wraps an I/O or oracle failure inside a worker.
	ErrWorkerFailed = errors.New("worker failed")
)
