package service

import (
	"errors"
	"sync/atomic"
)

// ErrSuperseded reports a request whose results were discarded because a
// newer request for the dashboard started while it was in flight.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Generations hands out monotonically increasing request tokens so that
// only the latest in-flight dashboard request publishes its result.
type Generations struct {
	current atomic.Int64
}

// Next claims a new generation, marking all older in-flight requests stale.
func (g *Generations) Next() int64 {
	return g.current.Add(1)
}

// IsCurrent reports whether gen is still the newest claimed generation.
func (g *Generations) IsCurrent(gen int64) bool {
	return g.current.Load() == gen
}
