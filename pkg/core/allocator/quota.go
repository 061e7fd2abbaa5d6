package allocator

import (
	"math"
	"sort"

	"github.com/jakechorley/duty-rota/pkg/core/model"
)

// AvailableDays returns the number of days in the month the employee is not on vacation.
// Vacation entries outside the month and duplicates are ignored.
func AvailableDays(emp model.Employee, month model.Month) int {
	return month.DaysInMonth() - len(vacationSet(emp, month))
}

func vacationSet(emp model.Employee, month model.Month) map[int]bool {
	daysInMonth := month.DaysInMonth()
	set := make(map[int]bool)
	for _, day := range emp.VacationDaysFor(month.Key()) {
		if day >= 1 && day <= daysInMonth {
			set[day] = true
		}
	}
	return set
}

// CalculateQuotas derives each employee's target number of duties for the month.
//
// Junior employees get min(JuniorMaxDuties, ceil(available / JuniorDaysPerDuty)).
// The days left after the juniors' share are spread over the other employees in
// proportion to their available days, with a floor of one duty each. If rounding
// leaves the total below the number of days in the month, the shortfall is handed out
// one duty at a time to non-junior employees with the most available days.
//
// Example - 30-day month, one junior (no vacation) and two seniors (A: 30 days, B: 20 days):
//   - Junior: min(2, ceil(30/15)) = 2
//   - Remaining days: 30 - 2 = 28
//   - A: round(30/50 * 28) = round(16.8) = 17
//   - B: round(20/50 * 28) = round(11.2) = 11
//   - Total 30, no reconciliation needed
func CalculateQuotas(employees []model.Employee, month model.Month, rules Rules) map[string]int {
	rules = rules.withDefaults()
	daysInMonth := month.DaysInMonth()

	quotas := make(map[string]int, len(employees))
	available := make(map[string]int, len(employees))

	var seniors []model.Employee
	totalJuniorQuota := 0
	totalSeniorAvailable := 0

	for _, emp := range employees {
		available[emp.ID] = AvailableDays(emp, month)
		if emp.Rank.IsJunior() {
			quotas[emp.ID] = juniorQuota(available[emp.ID], rules)
			totalJuniorQuota += quotas[emp.ID]
			continue
		}
		seniors = append(seniors, emp)
		totalSeniorAvailable += available[emp.ID]
	}

	seniorDays := daysInMonth - totalJuniorQuota
	for _, emp := range seniors {
		quota := 0
		if totalSeniorAvailable > 0 {
			share := float64(available[emp.ID]) / float64(totalSeniorAvailable)
			quota = int(math.Round(share * float64(seniorDays)))
		}
		quotas[emp.ID] = max(1, quota)
	}

	total := 0
	for _, quota := range quotas {
		total += quota
	}

	// Pad rounding shortfalls onto the seniors with the most availability
	if total < daysInMonth && len(seniors) > 0 {
		byAvailability := make([]model.Employee, len(seniors))
		copy(byAvailability, seniors)
		sort.SliceStable(byAvailability, func(i, j int) bool {
			return available[byAvailability[i].ID] > available[byAvailability[j].ID]
		})

		for remaining := daysInMonth - total; remaining > 0; {
			for _, emp := range byAvailability {
				if remaining == 0 {
					break
				}
				quotas[emp.ID]++
				remaining--
			}
		}
	}

	return quotas
}

func juniorQuota(availableDays int, rules Rules) int {
	if availableDays <= 0 {
		return 0
	}
	perDuty := float64(rules.JuniorDaysPerDuty)
	return min(rules.JuniorMaxDuties, int(math.Ceil(float64(availableDays)/perDuty)))
}
