package utils

import (
	cryptoRand "crypto/rand"
	"math/big"
	"math/rand/v2"
	"sync"
)

// RandomSource picks uniform integers in [0, n)
type RandomSource interface {
	IntN(n int) int
}

type systemSource struct{}

// NewSystemSource returns the default source, backed by crypto/rand
func NewSystemSource() RandomSource {
	return systemSource{}
}

func (systemSource) IntN(n int) int {
	if n <= 0 {
		panic("utils: IntN called with non-positive n")
	}
	v, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return rand.IntN(n)
	}
	return int(v.Int64())
}

type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a reproducible source for tests and replays
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// SequenceSource replays fixed picks, wrapping each one into [0, n).
// Useful to force specific winners in tests.
type SequenceSource struct {
	mu    sync.Mutex
	picks []int
	next  int
}

func NewSequenceSource(picks ...int) *SequenceSource {
	return &SequenceSource{picks: picks}
}

func (s *SequenceSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.picks) == 0 {
		return 0
	}
	v := s.picks[s.next%len(s.picks)]
	s.next++
	if v < 0 {
		v = -v
	}
	return v % n
}
