package sheetsclient

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// PublishedDay represents a single row of a published month
type PublishedDay struct {
	Date     string // Format: "2006-01-02"
	Weekday  string // Format: "Mon"
	Employee string // Display name, empty when the day is unassigned
	Rank     string
}

// PublishedSchedule represents one month as laid out in its tab
type PublishedSchedule struct {
	// Title names the tab, for example "October 2026"
	Title     string
	Days      []PublishedDay
	Conflicts []string
}

// scheduleHeader is the first row of every published tab
var scheduleHeader = []interface{}{"Date", "Day", "On duty", "Rank"}

// unassignedLabel marks a day without an assignment
const unassignedLabel = "UNASSIGNED"

// PublishSchedule writes a month to its own tab, creating the tab on first publish.
// An existing tab is cleared and rewritten so that republishing after an undo leaves no stale rows.
func (c *Client) PublishSchedule(ctx context.Context, spreadsheetID string, published *PublishedSchedule) error {
	existing, err := c.findSheet(ctx, spreadsheetID, published.Title)
	if err != nil {
		return err
	}

	if existing == nil {
		if _, err := c.createSheet(ctx, spreadsheetID, published.Title); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	} else {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, published.Title, &sheets.ClearValuesRequest{}).
			Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to clear existing tab: %w", err)
		}
	}

	valueRange := &sheets.ValueRange{Values: buildScheduleValues(published)}
	_, err = c.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("%s!A1", published.Title), valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}

	return nil
}

// buildScheduleValues lays out the header, one row per day and, after a blank row, the conflicts
func buildScheduleValues(published *PublishedSchedule) [][]interface{} {
	values := make([][]interface{}, 0, len(published.Days)+len(published.Conflicts)+3)
	values = append(values, scheduleHeader)

	for _, day := range published.Days {
		employee := day.Employee
		if employee == "" {
			employee = unassignedLabel
		}
		values = append(values, []interface{}{day.Date, day.Weekday, employee, day.Rank})
	}

	if len(published.Conflicts) > 0 {
		values = append(values, []interface{}{}, []interface{}{"Conflicts"})
		for _, conflict := range published.Conflicts {
			values = append(values, []interface{}{conflict})
		}
	}

	return values
}
