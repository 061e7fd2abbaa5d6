package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/internal/config"
	"github.com/jakechorley/duty-rota/pkg/core/allocator"
	"github.com/jakechorley/duty-rota/pkg/core/model"
	"github.com/jakechorley/duty-rota/pkg/db"
)

var (
	// ErrNoPreview is returned when applying or discarding a month without a generated preview
	ErrNoPreview = errors.New("no preview to apply")

	// ErrNothingToUndo is returned when the month has no schedule retained by a previous apply
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Schedule actions reported to the observer
const (
	ActionGenerate = "generate"
	ActionApply    = "apply"
	ActionUndo     = "undo"
	ActionDiscard  = "discard"
)

// ScheduleStore is the subset of the database used by the schedule controller
type ScheduleStore interface {
	GetEmployees(ctx context.Context) ([]db.Employee, error)
	GetVacations(ctx context.Context, monthKey string) ([]db.Vacation, error)
	GetAssignments(ctx context.Context, monthKey string, slot db.Slot) ([]db.Assignment, error)
	ReplaceAssignments(ctx context.Context, monthKey string, slot db.Slot, assignments []db.Assignment) error
	GetConflicts(ctx context.Context, monthKey string) ([]db.ScheduleConflict, error)
	ReplaceConflicts(ctx context.Context, monthKey string, conflicts []db.ScheduleConflict) error
}

// Observer receives generation results and schedule actions (for metrics)
type Observer interface {
	ObserveGeneration(outcome *allocator.Outcome, elapsed time.Duration)
	ObserveAction(action string, err error)
}

// ControllerOptions configures schedule generation
type ControllerOptions struct {
	Rules allocator.Rules

	// TieBreak names the strategy (see allocator.TieBreakerByName); Seed seeds the random strategy
	TieBreak string
	Seed     uint64

	// TieBreaker, when set, replaces the named strategy
	TieBreaker allocator.TieBreaker

	// Blackouts are recurring unavailable days merged into vacations at generation time
	Blackouts []config.Blackout

	Observer Observer
}

// ControllerOptionsFromConfig maps the scheduling section of the configuration
func ControllerOptionsFromConfig(cfg *config.Config) ControllerOptions {
	return ControllerOptions{
		Rules: allocator.Rules{
			JuniorMaxDuties:   cfg.Scheduling.JuniorMaxDuties,
			JuniorDaysPerDuty: cfg.Scheduling.JuniorDaysPerDuty,
		},
		TieBreak:  cfg.Scheduling.TieBreak,
		Seed:      cfg.Scheduling.Seed,
		Blackouts: cfg.Blackouts,
	}
}

// Preview is a generated schedule waiting to be applied
type Preview struct {
	Month      model.Month
	Schedule   model.Schedule
	Conflicts  []string
	Unassigned []int

	// Quotas and Violations are only known right after generation
	Quotas     map[string]int
	Violations []allocator.DayViolation
}

// ScheduleController wraps generation runs as reviewable, undoable changes to a month.
// Each month has three slots: the current schedule, the previous one kept for undo, and a preview.
type ScheduleController struct {
	store  ScheduleStore
	logger *zap.Logger
	opts   ControllerOptions
}

// NewScheduleController creates a controller over the store
func NewScheduleController(store ScheduleStore, logger *zap.Logger, opts ControllerOptions) *ScheduleController {
	return &ScheduleController{store: store, logger: logger, opts: opts}
}

// GeneratePreview runs one full generation pass for the month and stores it as the preview,
// replacing any earlier preview. The current and previous schedules are untouched.
func (c *ScheduleController) GeneratePreview(ctx context.Context, month model.Month) (preview *Preview, err error) {
	defer func() { c.observeAction(ActionGenerate, err) }()

	c.logger.Info("Generating schedule preview", zap.String("month", month.String()))

	employees, err := c.store.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	vacations, err := c.store.GetVacations(ctx, month.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vacations: %w", err)
	}
	blackoutDays, err := expandBlackouts(c.opts.Blackouts, month, c.logger)
	if err != nil {
		return nil, err
	}

	tieBreak := c.opts.TieBreaker
	if tieBreak == nil {
		tieBreak, err = allocator.TieBreakerByName(c.opts.TieBreak, c.opts.Seed)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	outcome, err := allocator.Generate(allocator.Config{
		Employees: buildRoster(employees, vacations, month.Key(), blackoutDays),
		Month:     month,
		Rules:     c.opts.Rules,
		TieBreak:  tieBreak,
		Logger:    c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schedule: %w", err)
	}
	elapsed := time.Since(start)

	if c.opts.Observer != nil {
		c.opts.Observer.ObserveGeneration(outcome, elapsed)
	}

	if err := c.store.ReplaceAssignments(ctx, month.Key(), db.SlotPreview,
		assignmentsFromSchedule(month.Key(), db.SlotPreview, outcome.Schedule)); err != nil {
		return nil, fmt.Errorf("failed to store preview: %w", err)
	}

	messages := outcome.ConflictMessages()
	conflicts := make([]db.ScheduleConflict, 0, len(messages))
	for i, message := range messages {
		conflicts = append(conflicts, db.ScheduleConflict{MonthKey: month.Key(), Position: i, Message: message})
	}
	if err := c.store.ReplaceConflicts(ctx, month.Key(), conflicts); err != nil {
		return nil, fmt.Errorf("failed to store preview conflicts: %w", err)
	}

	for _, violation := range outcome.Violations {
		c.logger.Error("Generated schedule breaks a hard constraint",
			zap.Int("day", violation.Day),
			zap.String("constraint", violation.ConstraintName),
			zap.String("description", violation.Description))
	}

	c.logger.Info("Schedule preview generated",
		zap.String("month", month.String()),
		zap.Int("assigned", len(outcome.Schedule)),
		zap.Int("conflicts", len(messages)),
		zap.Duration("elapsed", elapsed))

	return &Preview{
		Month:      month,
		Schedule:   outcome.Schedule,
		Conflicts:  messages,
		Unassigned: outcome.Unassigned,
		Quotas:     outcome.Quotas,
		Violations: outcome.Violations,
	}, nil
}

// GetPreview returns the stored preview of the month
func (c *ScheduleController) GetPreview(ctx context.Context, month model.Month) (*Preview, error) {
	schedule, err := c.slot(ctx, month, db.SlotPreview)
	if err != nil {
		return nil, err
	}
	stored, err := c.store.GetConflicts(ctx, month.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preview conflicts: %w", err)
	}
	if len(schedule) == 0 && len(stored) == 0 {
		return nil, ErrNoPreview
	}

	conflicts := make([]string, 0, len(stored))
	for _, c := range stored {
		conflicts = append(conflicts, c.Message)
	}

	return &Preview{
		Month:      month,
		Schedule:   schedule,
		Conflicts:  conflicts,
		Unassigned: schedule.Unassigned(month.DaysInMonth()),
	}, nil
}

// ApplyPreview installs the preview as the current schedule.
// The schedule it replaces is retained as the undo baseline; if the month had no schedule the
// baseline is cleared.
func (c *ScheduleController) ApplyPreview(ctx context.Context, month model.Month) (schedule model.Schedule, err error) {
	defer func() { c.observeAction(ActionApply, err) }()

	preview, err := c.GetPreview(ctx, month)
	if err != nil {
		return nil, err
	}

	current, err := c.CurrentSchedule(ctx, month)
	if err != nil {
		return nil, err
	}

	if err := c.store.ReplaceAssignments(ctx, month.Key(), db.SlotPrevious,
		assignmentsFromSchedule(month.Key(), db.SlotPrevious, current)); err != nil {
		return nil, fmt.Errorf("failed to retain previous schedule: %w", err)
	}
	if err := c.store.ReplaceAssignments(ctx, month.Key(), db.SlotCurrent,
		assignmentsFromSchedule(month.Key(), db.SlotCurrent, preview.Schedule)); err != nil {
		return nil, fmt.Errorf("failed to install schedule: %w", err)
	}
	if err := c.clearPreview(ctx, month); err != nil {
		return nil, err
	}

	c.logger.Info("Applied schedule preview",
		zap.String("month", month.String()),
		zap.Int("assigned", len(preview.Schedule)),
		zap.Bool("undo_available", len(current) > 0))

	return preview.Schedule, nil
}

// Undo reinstalls the schedule retained by the last apply and drops the baseline (one level only)
func (c *ScheduleController) Undo(ctx context.Context, month model.Month) (schedule model.Schedule, err error) {
	defer func() { c.observeAction(ActionUndo, err) }()

	previous, err := c.slot(ctx, month, db.SlotPrevious)
	if err != nil {
		return nil, err
	}
	if len(previous) == 0 {
		return nil, ErrNothingToUndo
	}

	if err := c.store.ReplaceAssignments(ctx, month.Key(), db.SlotCurrent,
		assignmentsFromSchedule(month.Key(), db.SlotCurrent, previous)); err != nil {
		return nil, fmt.Errorf("failed to restore previous schedule: %w", err)
	}
	if err := c.store.ReplaceAssignments(ctx, month.Key(), db.SlotPrevious, nil); err != nil {
		return nil, fmt.Errorf("failed to clear previous schedule: %w", err)
	}

	c.logger.Info("Restored previous schedule", zap.String("month", month.String()), zap.Int("assigned", len(previous)))
	return previous, nil
}

// DiscardPreview drops the preview without touching the current schedule
func (c *ScheduleController) DiscardPreview(ctx context.Context, month model.Month) (err error) {
	defer func() { c.observeAction(ActionDiscard, err) }()

	if _, err := c.GetPreview(ctx, month); err != nil {
		return err
	}
	if err := c.clearPreview(ctx, month); err != nil {
		return err
	}

	c.logger.Info("Discarded schedule preview", zap.String("month", month.String()))
	return nil
}

// CurrentSchedule returns the schedule in force for the month (empty if none was applied)
func (c *ScheduleController) CurrentSchedule(ctx context.Context, month model.Month) (model.Schedule, error) {
	return c.slot(ctx, month, db.SlotCurrent)
}

// CanUndo reports whether the month has a retained schedule to go back to
func (c *ScheduleController) CanUndo(ctx context.Context, month model.Month) (bool, error) {
	previous, err := c.slot(ctx, month, db.SlotPrevious)
	if err != nil {
		return false, err
	}
	return len(previous) > 0, nil
}

func (c *ScheduleController) slot(ctx context.Context, month model.Month, slot db.Slot) (model.Schedule, error) {
	assignments, err := c.store.GetAssignments(ctx, month.Key(), slot)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s schedule: %w", slot, err)
	}
	return scheduleFromAssignments(assignments), nil
}

func (c *ScheduleController) clearPreview(ctx context.Context, month model.Month) error {
	if err := c.store.ReplaceAssignments(ctx, month.Key(), db.SlotPreview, nil); err != nil {
		return fmt.Errorf("failed to clear preview: %w", err)
	}
	if err := c.store.ReplaceConflicts(ctx, month.Key(), nil); err != nil {
		return fmt.Errorf("failed to clear preview conflicts: %w", err)
	}
	return nil
}

func (c *ScheduleController) observeAction(action string, err error) {
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveAction(action, err)
	}
}
