package rental

import (
	"time"

	"golang.org/x/exp/rand"
)

// IndexSource yields a uniformly distributed integer in [0, n).
// Tests substitute a fixed source to force a particular car.
type IndexSource interface {
	Intn(n int) int
}

// UniformSource is the production IndexSource. It is safe for concurrent
// use.
type UniformSource struct {
	r *rand.Rand
}

// NewUniformSource returns a source seeded with seed.
func NewUniformSource(seed uint64) *UniformSource {
	src := &rand.LockedSource{}
	src.Seed(seed)
	return &UniformSource{r: rand.New(src)}
}

// NewTimeSeededSource seeds a UniformSource from the wall clock.
func NewTimeSeededSource() *UniformSource {
	return NewUniformSource(uint64(time.Now().UnixNano()))
}

// Intn returns a uniform integer in [0, n). It panics if n <= 0.
func (u *UniformSource) Intn(n int) int {
	return u.r.Intn(n)
}
