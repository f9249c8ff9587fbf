package sheetsclient

import (
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// RosterHeader is the first row written to the roster tab
var RosterHeader = []string{"Day", "#", "Name", "Signed up at", "Entry ID"}

// RosterRow is one volunteer on the published roster
type RosterRow struct {
	Day        string // "Thu, Feb 26"
	Position   int    // 1-based order within the day
	Name       string
	SignedUpAt string
	EntryID    string
}

// PublishRoster replaces the contents of the tab with the roster, creating the tab if needed
func (c *Client) PublishRoster(spreadsheetID, tab string, rows []RosterRow) error {
	exists, err := c.hasSheet(spreadsheetID, tab)
	if err != nil {
		return err
	}

	if !exists {
		if _, err := c.CreateSheet(spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to create tab: %w", err)
		}
	} else {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, tab, &sheets.ClearValuesRequest{}).Context(c.ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to clear tab: %w", err)
		}
	}

	valueRange := &sheets.ValueRange{
		Values: rosterValues(rows),
	}

	_, err = c.service.Spreadsheets.Values.Update(spreadsheetID, tab+"!A1", valueRange).
		ValueInputOption("RAW").
		Context(c.ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}

	return nil
}

// rosterValues converts rows into sheet values with the header first
func rosterValues(rows []RosterRow) [][]interface{} {
	header := make([]interface{}, len(RosterHeader))
	for i, h := range RosterHeader {
		header[i] = h
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, header)
	for _, row := range rows {
		values = append(values, []interface{}{row.Day, row.Position, row.Name, row.SignedUpAt, row.EntryID})
	}
	return values
}
