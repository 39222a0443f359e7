package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource abstract. Implementations must be safe for concurrent use.
type RandomSource interface {
	Int64N(n int64) int64 // [0, n)
}

// cryptoSource feeds math/rand/v2 from crypto/rand; it holds no state.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// back to math/rand/v2
		return rand.Uint64()
	}
	return binary.BigEndian.Uint64(buf[:])
}

// crypto random : default generation method
type cryptoRNG struct{ r *rand.Rand }

func (c cryptoRNG) Int64N(n int64) int64 { return c.r.Int64N(n) }

func DefaultRNG() RandomSource { return cryptoRNG{r: rand.New(cryptoSource{})} }

// Replicable RNG (e.g. Monte Carlo, tests)
type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Int64N(n int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Int64N(n)
}
