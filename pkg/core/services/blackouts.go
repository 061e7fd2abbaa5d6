package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/internal/config"
	"github.com/jakechorley/duty-rota/pkg/core/model"
)

// expandBlackouts returns, per employee id, the days of the month matched by their recurring blackouts.
// Rules without a DTSTART are anchored at the first day of the month.
func expandBlackouts(blackouts []config.Blackout, month model.Month, logger *zap.Logger) (map[string][]int, error) {
	days := make(map[string][]int)
	if len(blackouts) == 0 {
		return days, nil
	}

	monthStart := month.Date(1)
	monthEnd := month.Date(month.DaysInMonth()).Add(24*time.Hour - time.Nanosecond)

	for i, blackout := range blackouts {
		rule, err := rrule.StrToRRule(blackout.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule for blackout %d: %w", i, err)
		}
		if !strings.Contains(strings.ToUpper(blackout.RRule), "DTSTART") {
			rule.DTStart(monthStart)
		}

		occurrences := rule.Between(monthStart, monthEnd, true)
		for _, occurrence := range occurrences {
			days[blackout.EmployeeID] = append(days[blackout.EmployeeID], occurrence.Day())
		}

		logger.Debug("Expanded blackout",
			zap.Int("index", i),
			zap.String("employee_id", blackout.EmployeeID),
			zap.String("rrule", blackout.RRule),
			zap.Int("days", len(occurrences)))
	}

	return days, nil
}
