package protocol

import (
	"github.com/iti/rngstream"
)

// Rand is the randomness the channel samples for fault injection. Tests
// substitute a scripted source to force exact loss/corruption/delay outcomes.
type Rand interface {
	// Float64 returns a sample in [0, 1).
	Float64() float64
	// Intn returns a sample in [0, n).
	Intn(n int) int
}

// streamRand adapts an rngstream stream to Rand. Every channel gets its own
// named stream so runs are reproducible under a fixed master seed.
type streamRand struct {
	rng *rngstream.RngStream
}

func NewStreamRand(name string) Rand {
	return &streamRand{rng: rngstream.New(name)}
}

func (r *streamRand) Float64() float64 {
	return r.rng.RandU01()
}

func (r *streamRand) Intn(n int) int {
	return r.rng.RandInt(0, n-1)
}

// SetMasterSeed fixes the seed for all streams created afterwards.
func SetMasterSeed(seed uint64) {
	rngstream.SetRngStreamMasterSeed(seed)
}
