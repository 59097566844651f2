package simulation

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource supplies the noise behind every mocked number.  Production uses
// NewLockedSource; tests inject a fixed sequence.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n).
	Intn(n int) int
}

// lockedSource is a math/rand generator safe for concurrent requests.
type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewLockedSource returns a goroutine-safe RandomSource.  A seed of 0 seeds
// from the wall clock.
func NewLockedSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

//Personal.AI order the ending
