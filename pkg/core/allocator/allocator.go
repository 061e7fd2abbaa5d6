package allocator

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/model"
)

var (
	// ErrEmptyRoster is returned when a run is requested without employees.
	// It signals misuse of the interface, unlike capacity conflicts which are part of the outcome.
	ErrEmptyRoster = errors.New("no employees supplied")

	// ErrInvalidMonth is returned for a month outside the calendar
	ErrInvalidMonth = errors.New("invalid month")
)

// Config contains the input of a generation run
type Config struct {
	// Employees is the roster, in the order used to break exact ties
	Employees []model.Employee

	// Month to fill
	Month model.Month

	// Rules for the quota calculation (zero values fall back to DefaultRules)
	Rules Rules

	// TieBreak decides between near-equal candidates in the daily pass.
	// Nil means a clock-seeded random choice.
	TieBreak TieBreaker

	// Logger receives debug output for every decision (nil disables logging)
	Logger *zap.Logger
}

// Outcome represents the result of a generation run
type Outcome struct {
	Month model.Month

	// Schedule is the sparse day -> employee id mapping
	Schedule model.Schedule

	// Conflicts lists every slot that could not be filled, in the order they were met
	Conflicts []Conflict

	// Quotas holds the target duty count of every employee
	Quotas map[string]int

	// Employees holds the final counters of the run, in roster order
	Employees []*EmployeeState

	// Unassigned lists the days left empty
	Unassigned []int

	// Violations holds hard-constraint violations found by the final validation (expected empty)
	Violations []DayViolation
}

// ConflictMessages returns the free-text conflict warnings
func (o *Outcome) ConflictMessages() []string {
	messages := make([]string, 0, len(o.Conflicts))
	for _, c := range o.Conflicts {
		messages = append(messages, c.Message)
	}
	return messages
}

// FullyCovered returns true if every day was assigned without conflicts
func (o *Outcome) FullyCovered() bool {
	return len(o.Conflicts) == 0 && len(o.Unassigned) == 0
}

// Generate runs one full pass: quotas, weekend blocks, then the daily gap filler.
// Capacity problems never abort the run; they are reported as conflicts with the
// affected days left unassigned.
func Generate(cfg Config) (*Outcome, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tieBreak := cfg.TieBreak
	if tieBreak == nil {
		var err error
		tieBreak, err = TieBreakerByName(TieBreakRandom, 0)
		if err != nil {
			return nil, err
		}
	}

	state, err := InitRun(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("Starting schedule generation",
		zap.String("month", state.Month.Key()),
		zap.Int("days", state.DaysInMonth),
		zap.Int("employees", len(state.Employees)),
		zap.Int("weekend_cap", state.WeekendCap))

	assignWeekends(state, logger)
	fillDays(state, tieBreak, logger)

	outcome := buildOutcome(state)

	logger.Debug("Schedule generation finished",
		zap.Int("assigned", len(outcome.Schedule)),
		zap.Int("conflicts", len(outcome.Conflicts)),
		zap.Int("violations", len(outcome.Violations)))

	return outcome, nil
}

// InitRun validates the input and builds the run state with quotas and fresh counters
func InitRun(cfg Config) (*RunState, error) {
	if !cfg.Month.IsValid() {
		return nil, fmt.Errorf("%w: year %d, month index %d", ErrInvalidMonth, cfg.Month.Year, cfg.Month.Index)
	}
	if len(cfg.Employees) == 0 {
		return nil, ErrEmptyRoster
	}

	seen := make(map[string]bool, len(cfg.Employees))
	for _, emp := range cfg.Employees {
		if emp.ID == "" {
			return nil, fmt.Errorf("employee %q has no id", emp.Name)
		}
		if seen[emp.ID] {
			return nil, fmt.Errorf("duplicate employee id %q", emp.ID)
		}
		seen[emp.ID] = true
	}

	rules := cfg.Rules.withDefaults()
	quotas := CalculateQuotas(cfg.Employees, cfg.Month, rules)

	state := &RunState{
		Month:       cfg.Month,
		DaysInMonth: cfg.Month.DaysInMonth(),
		Employees:   make([]*EmployeeState, 0, len(cfg.Employees)),
		Schedule:    make(model.Schedule),
		Conflicts:   NewConflictLog(),
		WeekendCap:  weekendCap(len(WeekendBlocks(cfg.Month)), len(cfg.Employees)),
		Rules:       rules,
		byID:        make(map[string]*EmployeeState, len(cfg.Employees)),
	}

	for _, emp := range cfg.Employees {
		empState := &EmployeeState{
			Employee:      emp,
			AvailableDays: AvailableDays(emp, cfg.Month),
			Quota:         quotas[emp.ID],
			LastDutyDay:   noPreviousDuty,
			vacation:      vacationSet(emp, cfg.Month),
		}
		state.Employees = append(state.Employees, empState)
		state.byID[emp.ID] = empState
	}

	return state, nil
}

// buildOutcome creates the final report of a run
func buildOutcome(state *RunState) *Outcome {
	quotas := make(map[string]int, len(state.Employees))
	for _, emp := range state.Employees {
		quotas[emp.ID()] = emp.Quota
	}

	return &Outcome{
		Month:      state.Month,
		Schedule:   state.Schedule.Clone(),
		Conflicts:  state.Conflicts.Conflicts(),
		Quotas:     quotas,
		Employees:  slices.Clone(state.Employees),
		Unassigned: state.Schedule.Unassigned(state.DaysInMonth),
		Violations: ValidateRunState(state),
	}
}
