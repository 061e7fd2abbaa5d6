package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Rank string

const (
	RankR2 Rank = "R2"
	RankR3 Rank = "R3"
	RankR4 Rank = "R4"
	RankR5 Rank = "R5"
)

// Ranks lists every rank from most junior to most senior
var Ranks = []Rank{RankR2, RankR3, RankR4, RankR5}

func (r Rank) IsValid() bool {
	return slices.Contains(Ranks, r)
}

// Level returns the position of the rank in the seniority order (0 = most junior, -1 if unknown)
func (r Rank) Level() int {
	return slices.Index(Ranks, r)
}

// IsJunior reports whether the rank is the lowest tier, which has a capped duty load
func (r Rank) IsJunior() bool {
	return r == Ranks[0]
}

// Employee represents a member of the on-call roster
type Employee struct {
	ID         string
	Name       string
	Rank       Rank
	Department string
	// VacationDays maps a month key to the day numbers the employee is unavailable
	VacationDays map[string][]int
}

// VacationDaysFor returns the vacation days recorded for the given month key
func (e Employee) VacationDaysFor(monthKey string) []int {
	if e.VacationDays == nil {
		return nil
	}
	return e.VacationDays[monthKey]
}

// IsOnVacation reports whether the employee is unavailable on the given day
func (e Employee) IsOnVacation(monthKey string, day int) bool {
	return slices.Contains(e.VacationDaysFor(monthKey), day)
}

// Weekday uses Monday-first ordering (Monday = 0, Sunday = 6)
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (w Weekday) String() string {
	return [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}[w]
}

// IsWeekendBlock reports whether the day belongs to a Friday-Sunday weekend block
func (w Weekday) IsWeekendBlock() bool {
	return w == Friday || w == Saturday || w == Sunday
}

// Month identifies a calendar month by year and zero-based month index
type Month struct {
	Year  int
	Index int // 0 = January
}

// NewMonth builds a Month and validates the month index
func NewMonth(year, index int) (Month, error) {
	m := Month{Year: year, Index: index}
	if !m.IsValid() {
		return Month{}, fmt.Errorf("invalid month index %d (expected 0-11)", index)
	}
	return m, nil
}

// MonthOf returns the month containing t
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Index: int(t.Month()) - 1}
}

// ParseMonthKey parses a key in the "<year>-<zero-based month>" format
func ParseMonthKey(key string) (Month, error) {
	yearStr, indexStr, ok := strings.Cut(key, "-")
	if !ok {
		return Month{}, fmt.Errorf("invalid month key %q", key)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Month{}, fmt.Errorf("invalid year in month key %q: %w", key, err)
	}
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month in month key %q: %w", key, err)
	}
	return NewMonth(year, index)
}

func (m Month) IsValid() bool {
	return m.Index >= 0 && m.Index <= 11 && m.Year > 0
}

// Key returns the month key used to index vacation days and schedules
func (m Month) Key() string {
	return fmt.Sprintf("%d-%d", m.Year, m.Index)
}

func (m Month) String() string {
	return m.Date(1).Format("January 2006")
}

// Date returns the calendar date of a day in this month
func (m Month) Date(day int) time.Time {
	return time.Date(m.Year, time.Month(m.Index+1), day, 0, 0, 0, 0, time.UTC)
}

func (m Month) DaysInMonth() int {
	return m.Date(1).AddDate(0, 1, -1).Day()
}

// Weekday returns the Monday-first weekday of a day in this month
func (m Month) Weekday(day int) Weekday {
	return Weekday((int(m.Date(day).Weekday()) + 6) % 7)
}

// Schedule maps a day number to the id of the employee on duty; absent days are unassigned
type Schedule map[int]string

// Clone returns an independent copy of the schedule (never nil)
func (s Schedule) Clone() Schedule {
	clone := make(Schedule, len(s))
	for day, id := range s {
		clone[day] = id
	}
	return clone
}

// Equal reports whether both schedules hold the same assignments
func (s Schedule) Equal(other Schedule) bool {
	if len(s) != len(other) {
		return false
	}
	for day, id := range s {
		if other[day] != id {
			return false
		}
	}
	return true
}

// Days returns the assigned day numbers in ascending order
func (s Schedule) Days() []int {
	days := make([]int, 0, len(s))
	for day := range s {
		days = append(days, day)
	}
	slices.Sort(days)
	return days
}

// Unassigned returns the days of the month without an assignment
func (s Schedule) Unassigned(daysInMonth int) []int {
	var days []int
	for day := 1; day <= daysInMonth; day++ {
		if _, ok := s[day]; !ok {
			days = append(days, day)
		}
	}
	return days
}

// CountFor returns how many days are assigned to the employee
func (s Schedule) CountFor(employeeID string) int {
	count := 0
	for _, id := range s {
		if id == employeeID {
			count++
		}
	}
	return count
}
