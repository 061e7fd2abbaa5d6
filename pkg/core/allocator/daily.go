package allocator

import (
	"go.uber.org/zap"
)

// dailyConstraints apply to every day filled by the daily pass
var dailyConstraints = []Constraint{
	VacationConstraint{},
	RestConstraint{},
	QuotaConstraint{},
	ThursdayRestConstraint{},
}

// fillDays assigns every day the weekend pass left empty, in calendar order.
// Days without candidates are recorded as conflicts and left empty.
func fillDays(state *RunState, tieBreak TieBreaker, logger *zap.Logger) {
	for day := 1; day <= state.DaysInMonth; day++ {
		if _, filled := state.Schedule[day]; filled {
			continue
		}

		candidates := candidatesFor(state, []int{day}, dailyConstraints)
		if len(candidates) == 0 {
			state.Conflicts.record(ConflictDay, []int{day}, "missing capacity for day %d", day)
			logger.Debug("No employee for day", zap.Int("day", day))
			continue
		}

		pool := preferRankRotation(state, day, candidates)
		selected := pickByDeficit(pool, tieBreak)

		state.assign(selected, day, false)
		logger.Debug("Assigned day",
			zap.Int("day", day),
			zap.String("employee", selected.ID()),
			zap.Int("candidates", len(candidates)),
			zap.Int("pool", len(pool)))
	}
}

// preferRankRotation narrows the candidates to those whose rank differs from yesterday's
// employee. It falls back to all candidates when nobody of a different rank is eligible.
func preferRankRotation(state *RunState, day int, candidates []*EmployeeState) []*EmployeeState {
	previous := state.AssignedTo(day - 1)
	if previous == nil {
		return candidates
	}

	var rotated []*EmployeeState
	for _, candidate := range candidates {
		if candidate.Employee.Rank != previous.Employee.Rank {
			rotated = append(rotated, candidate)
		}
	}
	if len(rotated) == 0 {
		return candidates
	}
	return rotated
}

// pickByDeficit walks the pool keeping the candidate with the largest deficit.
// When the kept candidate and the next one are within one duty of each other the
// tie-breaker decides between them.
func pickByDeficit(pool []*EmployeeState, tieBreak TieBreaker) *EmployeeState {
	if len(pool) == 0 {
		return nil
	}
	selected := pool[0]
	for _, candidate := range pool[1:] {
		diff := candidate.Deficit() - selected.Deficit()
		if diff >= -1 && diff <= 1 {
			selected = tieBreak(selected, candidate)
			continue
		}
		if diff > 0 {
			selected = candidate
		}
	}
	return selected
}
