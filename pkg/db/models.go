package db

// Employee represents a database roster record
type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Rank       string `json:"rank"`
	Department string `json:"department"`
}

// Vacation represents one day an employee is unavailable
type Vacation struct {
	EmployeeID string
	MonthKey   string
	Day        int
}

// Slot names one of the stored schedules of a month
type Slot string

const (
	// SlotCurrent is the schedule in force
	SlotCurrent Slot = "current"
	// SlotPrevious is the schedule replaced by the last apply, kept for one level of undo
	SlotPrevious Slot = "previous"
	// SlotPreview is a generated schedule waiting to be applied or discarded
	SlotPreview Slot = "preview"
)

// Slots lists every schedule slot
var Slots = []Slot{SlotCurrent, SlotPrevious, SlotPreview}

// Assignment represents a database record of one employee on duty for one day
type Assignment struct {
	MonthKey   string
	Slot       Slot
	Day        int
	EmployeeID string
}

// ScheduleConflict represents a stored conflict message of a preview
type ScheduleConflict struct {
	MonthKey string
	Position int
	Message  string
}
