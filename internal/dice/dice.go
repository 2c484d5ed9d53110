// Package dice provides the d20 checks and the injectable randomness used by the engine.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Sides is the number of faces on the check die.
const Sides = 20

// Band is the narration tier of a roll, independent of whether the check succeeded.
type Band int

const (
	BandNormal Band = iota
	BandCriticalFailure
	BandCriticalSuccess
)

func (b Band) String() string {
	switch b {
	case BandCriticalFailure:
		return "critical failure"
	case BandCriticalSuccess:
		return "critical success"
	}
	return "normal"
}

// BandOf returns the tier of a d20 roll: 1-5 critical failure, 16-20 critical success.
func BandOf(roll int) Band {
	switch {
	case roll <= 5:
		return BandCriticalFailure
	case roll >= 16:
		return BandCriticalSuccess
	}
	return BandNormal
}

// Roller produces the next d20 result in [1, 20].
type Roller interface {
	Roll() int
}

// Random is the source for everything that is not a check: chances and table picks.
// *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// D20 rolls a twenty-sided die from a pseudo-random source.
type D20 struct {
	rng Random
}

// NewD20 returns a roller backed by rng.
func NewD20(rng Random) *D20 {
	return &D20{rng: rng}
}

// Roll returns a uniform value in [1, 20].
func (d *D20) Roll() int {
	return d.rng.Intn(Sides) + 1
}

// NewRand returns a seeded pseudo-random source. A zero seed draws one from crypto/rand.
func NewRand(seed int64) (*rand.Rand, error) {
	if seed == 0 {
		var err error
		if seed, err = NewSeed(); err != nil {
			return nil, err
		}
	}
	return rand.New(rand.NewSource(seed)), nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Result is the outcome of one difficulty check.
type Result struct {
	Roll       int
	Difficulty int
	Success    bool
	Band       Band
}

// Check compares roll against difficulty. Any difficulty is accepted; the
// comparison is purely numeric.
func Check(roll, difficulty int) Result {
	return Result{
		Roll:       roll,
		Difficulty: difficulty,
		Success:    roll >= difficulty,
		Band:       BandOf(roll),
	}
}

// Tag is the short success/failure label recorded in story history.
func (r Result) Tag() string {
	if r.Success {
		return "Success"
	}
	return "Failure"
}

// Sequence is a Roller that replays fixed values in order, wrapping around.
type Sequence struct {
	values []int
	next   int
}

// NewSequence returns a roller that yields values cyclically.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Roll returns the next value of the sequence. An empty sequence always rolls 1.
func (s *Sequence) Roll() int {
	if len(s.values) == 0 {
		return 1
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
