// Package random provides the engine's randomness collaborator.
//
// Randomness is used only for battle drops and daily reward rolls. The
// default Factory derives a PCG stream from a persisted seed and the
// journal sequence number of the operation being executed, so a journal
// replays to identical drops. That makes outcomes reproducible, and also
// predictable to anyone who learns the seed: it is NOT a fair source in an
// adversarial setting.
package random

import "math/rand/v2"

//go:generate go tool mockgen -destination=./mocks/source_mock.go -package=mocks . Source

// Source draws uniform integers.
type Source interface {
	// NextUniform returns a value in [0, max). It returns 0 when max <= 0.
	NextUniform(max int64) int64
}

// Factory hands out the Source for one operation, identified by its
// journal sequence number.
type Factory interface {
	Stream(seq int64) Source
}

// Seeded is a Factory whose streams are a pure function of (seed, seq).
type Seeded struct {
	seed uint64
}

// NewSeeded returns a Factory for seed.
func NewSeeded(seed int64) Seeded {
	return Seeded{seed: uint64(seed)}
}

// Seed returns the seed the factory was built with.
func (s Seeded) Seed() int64 { return int64(s.seed) }

// Stream returns the PCG stream for seq.
func (s Seeded) Stream(seq int64) Source {
	return pcgSource{r: rand.New(rand.NewPCG(s.seed, uint64(seq)))}
}

type pcgSource struct {
	r *rand.Rand
}

func (p pcgSource) NextUniform(max int64) int64 {
	if max <= 0 {
		return 0
	}
	return p.r.Int64N(max)
}

// Fixed is a Factory that returns the same Source for every operation.
// Tests use it to script rolls.
type Fixed struct {
	Source Source
}

func (f Fixed) Stream(int64) Source { return f.Source }

// Sequence is a Source replaying a scripted list of draws, each reduced
// modulo max. Once exhausted it keeps returning 0.
type Sequence struct {
	draws []int64
	next  int
}

// NewSequence returns a Source over draws.
func NewSequence(draws ...int64) *Sequence {
	return &Sequence{draws: draws}
}

func (s *Sequence) NextUniform(max int64) int64 {
	if max <= 0 || s.next >= len(s.draws) {
		return 0
	}
	v := s.draws[s.next] % max
	s.next++
	if v < 0 {
		v += max
	}
	return v
}
