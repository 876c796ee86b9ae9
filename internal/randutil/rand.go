package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The table's deal order is a pure function of this seed: the server feeds
// the CLI seed through here once at startup and hands the source to the
// deck, so replaying a seed replays every shuffle of the session.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// mix is a splitmix64-style finalizer. rand/v2's PCG wants two well-spread
// 64-bit words; nearby seeds (0, 1, 2, ...) would otherwise yield correlated
// streams.
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
