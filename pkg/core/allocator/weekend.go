package allocator

import (
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
)

// WeekendBlock is the Friday-Saturday-Sunday triple anchored by a Friday
type WeekendBlock struct {
	Friday   int
	Saturday int
	Sunday   int
}

// WeekendBlocks returns the complete weekend blocks of the month in chronological order.
// A Friday whose Sunday falls in the next month does not start a block; its days are left
// to the daily pass.
func WeekendBlocks(month model.Month) []WeekendBlock {
	daysInMonth := month.DaysInMonth()
	var blocks []WeekendBlock
	for day := 1; day+2 <= daysInMonth; day++ {
		if month.Weekday(day) == model.Friday {
			blocks = append(blocks, WeekendBlock{Friday: day, Saturday: day + 1, Sunday: day + 2})
		}
	}
	return blocks
}

// weekendCap returns the weekend-block days one employee may take: ceil(blocks * 2 / employees)
func weekendCap(blockCount, employeeCount int) int {
	if employeeCount == 0 {
		return 0
	}
	return (blockCount*2 + employeeCount - 1) / employeeCount
}

// anchorConstraints apply to the Friday/Sunday pair of a weekend block
var anchorConstraints = []Constraint{
	VacationConstraint{},
	RestConstraint{},
	QuotaConstraint{},
	WeekendCapConstraint{},
}

// assignWeekends pre-assigns every weekend block: Friday and Sunday to one anchor,
// Saturday to someone else. Slots without candidates are recorded as conflicts and left empty.
func assignWeekends(state *RunState, logger *zap.Logger) {
	for _, block := range WeekendBlocks(state.Month) {
		anchorDays := []int{block.Friday, block.Sunday}

		anchor := pickLargestDeficit(candidatesFor(state, anchorDays, anchorConstraints))
		if anchor == nil {
			state.Conflicts.record(ConflictWeekendAnchor, anchorDays,
				"missing capacity for Friday %d and Sunday %d", block.Friday, block.Sunday)
			logger.Debug("No anchor for weekend block",
				zap.Int("friday", block.Friday),
				zap.Int("sunday", block.Sunday))
			continue
		}

		state.assign(anchor, block.Friday, true)
		state.assign(anchor, block.Sunday, true)
		logger.Debug("Assigned weekend anchor",
			zap.String("employee", anchor.ID()),
			zap.Int("friday", block.Friday),
			zap.Int("sunday", block.Sunday))

		saturdayConstraints := append(anchorConstraints[:len(anchorConstraints):len(anchorConstraints)],
			excludeEmployee{id: anchor.ID()})

		saturday := pickLargestDeficit(candidatesFor(state, []int{block.Saturday}, saturdayConstraints))
		if saturday == nil {
			state.Conflicts.record(ConflictSaturday, []int{block.Saturday},
				"missing capacity for Saturday %d", block.Saturday)
			logger.Debug("No employee for Saturday", zap.Int("saturday", block.Saturday))
			continue
		}

		state.assign(saturday, block.Saturday, true)
		logger.Debug("Assigned Saturday",
			zap.String("employee", saturday.ID()),
			zap.Int("saturday", block.Saturday))
	}
}

// pickLargestDeficit returns the candidate furthest below quota; the first one found wins ties
func pickLargestDeficit(candidates []*EmployeeState) *EmployeeState {
	var selected *EmployeeState
	for _, candidate := range candidates {
		if selected == nil || candidate.Deficit() > selected.Deficit() {
			selected = candidate
		}
	}
	return selected
}
