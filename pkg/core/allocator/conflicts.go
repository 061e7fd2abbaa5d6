package allocator

import "fmt"

// ConflictKind identifies which slot could not be filled
type ConflictKind string

const (
	ConflictWeekendAnchor ConflictKind = "weekend_anchor"
	ConflictSaturday      ConflictKind = "saturday"
	ConflictDay           ConflictKind = "day"
)

// Conflict is a recorded failure to find an eligible employee
type Conflict struct {
	Kind    ConflictKind
	Days    []int
	Message string
}

// ConflictLog is an append-only record of capacity conflicts.
// The assignment passes write to it but never read from it.
type ConflictLog struct {
	conflicts []Conflict
}

// NewConflictLog creates an empty log
func NewConflictLog() *ConflictLog {
	return &ConflictLog{conflicts: []Conflict{}}
}

func (l *ConflictLog) record(kind ConflictKind, days []int, format string, args ...any) {
	l.conflicts = append(l.conflicts, Conflict{
		Kind:    kind,
		Days:    days,
		Message: fmt.Sprintf(format, args...),
	})
}

// Conflicts returns a copy of the recorded conflicts in the order they happened
func (l *ConflictLog) Conflicts() []Conflict {
	out := make([]Conflict, len(l.conflicts))
	copy(out, l.conflicts)
	return out
}

// Messages returns the free-text warnings in the order they happened
func (l *ConflictLog) Messages() []string {
	messages := make([]string, 0, len(l.conflicts))
	for _, c := range l.conflicts {
		messages = append(messages, c.Message)
	}
	return messages
}

// Len returns the number of recorded conflicts
func (l *ConflictLog) Len() int {
	return len(l.conflicts)
}
