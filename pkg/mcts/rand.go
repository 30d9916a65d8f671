package mcts

import (
	"math/rand"
	"time"
)

// SeedGeneratorFn produces the base seed recorded in search statistics and
// used to derive each thread's RNG (§9 "Randomness"). Overridable for
// reproducible tests, grounded on the teacher's vars.go SeedGeneratorFn.
var SeedGeneratorFn func() int64 = func() int64 {
	return time.Now().UnixNano()
}

// threadRand derives an independent RNG stream for threadID from a base
// seed, so that single-threaded runs are reproducible (§8 round-trip law:
// "identical RNG seed, single-threaded, must yield identical ... visit
// counts") while multi-threaded runs still get independent streams.
func threadRand(baseSeed int64, threadID int) *rand.Rand {
	return rand.New(rand.NewSource(baseSeed + int64(threadID)))
}
