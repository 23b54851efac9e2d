package complaint

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues complaint ids from a millisecond clock. Two ids issued in the
// same millisecond, or after the clock steps back, still come out strictly increasing.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// Observe raises the floor to an id already stored, so a restarted process never
// reissues it. Non-numeric ids are ignored.
func (g *IDGenerator) Observe(id string) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > g.last {
		g.last = n
	}
}
