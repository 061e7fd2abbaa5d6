package allocator

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// TieBreaker chooses between two candidates whose remaining deficits are within one duty.
// current is the candidate selected so far (earlier in roster order), challenger the next one.
type TieBreaker func(current, challenger *EmployeeState) *EmployeeState

// Tie-break strategy names accepted by TieBreakerByName
const (
	TieBreakRandom     = "random"
	TieBreakFirstMatch = "first"
	TieBreakRoundRobin = "roundrobin"
)

// FirstMatch always keeps the candidate found first, making runs fully deterministic
func FirstMatch(current, challenger *EmployeeState) *EmployeeState {
	return current
}

// RandomTieBreak picks either candidate with equal probability from a seeded source
func RandomTieBreak(seed uint64) TieBreaker {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(current, challenger *EmployeeState) *EmployeeState {
		if rng.IntN(2) == 1 {
			return challenger
		}
		return current
	}
}

// RoundRobinTieBreak alternates between keeping the current candidate and taking the challenger
func RoundRobinTieBreak() TieBreaker {
	takeChallenger := false
	return func(current, challenger *EmployeeState) *EmployeeState {
		takeChallenger = !takeChallenger
		if takeChallenger {
			return challenger
		}
		return current
	}
}

// TieBreakerByName builds a tie-breaker from its configured name.
// A zero seed with the random strategy seeds from the clock.
func TieBreakerByName(name string, seed uint64) (TieBreaker, error) {
	switch name {
	case "", TieBreakRandom:
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return RandomTieBreak(seed), nil
	case TieBreakFirstMatch:
		return FirstMatch, nil
	case TieBreakRoundRobin:
		return RoundRobinTieBreak(), nil
	default:
		return nil, fmt.Errorf("unknown tie-break strategy %q", name)
	}
}
