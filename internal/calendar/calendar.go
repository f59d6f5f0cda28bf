// Package calendar builds the fixed 6x7 month grid shown by the task
// calendar. Weeks start on Sunday and months are 1-based (time.Month).
package calendar

import (
	"fmt"
	"time"

	"github.com/sakif/whisper/internal/model"
)

// Cells is the number of cells in every grid.
const Cells = 42

// YearMonth identifies a month view.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Prev returns the month before ym, rolling January back to December of the
// previous year.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Next returns the month after ym, rolling December over to January.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Cell is one grid position. Date is always the fully qualified day the cell
// stands for, including spillover cells from adjacent months.
type Cell struct {
	Date      string       `json:"date"`
	Year      int          `json:"year"`
	Month     time.Month   `json:"month"`
	Day       int          `json:"day"`
	InMonth   bool         `json:"inMonth"`
	TaskCount int          `json:"taskCount"`
	Tasks     []model.Task `json:"tasks,omitempty"`
}

// Grid is a month view.
type Grid struct {
	YearMonth
	Prev  YearMonth `json:"prev"`
	Next  YearMonth `json:"next"`
	Cells []Cell    `json:"cells"`
}

// DateKey formats a day as YYYY-MM-DD.
func DateKey(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Build returns the grid for year/month with tasks attached to the cell whose
// date key equals the task's Date. Tasks outside the 42 visible days are
// ignored.
func Build(year int, month time.Month, tasks []model.Task) (*Grid, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("calendar: month %d out of range 1-12", int(month))
	}

	current := YearMonth{Year: year, Month: month}
	prev, next := current.Prev(), current.Next()

	firstWeekday := int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
	daysInMonth := DaysIn(year, month)
	daysInPrev := DaysIn(prev.Year, prev.Month)

	grid := &Grid{
		YearMonth: current,
		Prev:      prev,
		Next:      next,
		Cells:     make([]Cell, Cells),
	}

	for i := 0; i < Cells; i++ {
		raw := i - firstWeekday + 1
		cell := Cell{Year: year, Month: month, Day: raw, InMonth: true}
		switch {
		case raw <= 0:
			cell = Cell{Year: prev.Year, Month: prev.Month, Day: daysInPrev + raw}
		case raw > daysInMonth:
			cell = Cell{Year: next.Year, Month: next.Month, Day: raw - daysInMonth}
		}
		cell.Date = DateKey(cell.Year, cell.Month, cell.Day)

		for _, t := range tasks {
			if t.Date == cell.Date {
				cell.Tasks = append(cell.Tasks, t)
			}
		}
		cell.TaskCount = len(cell.Tasks)

		grid.Cells[i] = cell
	}

	return grid, nil
}
