package allocator

import (
	"github.com/jakechorley/duty-rota/pkg/core/model"
)

// june2026 has 30 days, starts on a Monday and has weekend blocks 5-7, 12-14, 19-21 and 26-28
var june2026 = model.Month{Year: 2026, Index: 5}

func employee(id string, rank model.Rank, vacation ...int) model.Employee {
	emp := model.Employee{ID: id, Name: "Employee " + id, Rank: rank}
	if len(vacation) > 0 {
		emp.VacationDays = map[string][]int{june2026.Key(): vacation}
	}
	return emp
}

// standardRoster has quotas of 5 for each senior and 2 for each junior in June 2026
func standardRoster() []model.Employee {
	return []model.Employee{
		employee("e0", model.RankR5),
		employee("e1", model.RankR4),
		employee("e2", model.RankR4),
		employee("e3", model.RankR3),
		employee("e4", model.RankR3),
		employee("e5", model.RankR2),
		employee("e6", model.RankR2),
		employee("e7", model.RankR2),
	}
}

func newTestState(employees []model.Employee) *RunState {
	state, err := InitRun(Config{Employees: employees, Month: june2026})
	if err != nil {
		panic(err)
	}
	return state
}

// alwaysChallenger is a deterministic tie-breaker that prefers the later candidate
func alwaysChallenger(current, challenger *EmployeeState) *EmployeeState {
	return challenger
}
