package calendar

import (
	"time"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

// Visible hour range of the day/week grid. Orders starting before StartHour
// are kept in the data set but not rendered.
const (
	StartHour = 6
	EndHour   = 20
)

// GridConfig controls the pixel geometry of the hour grid.
type GridConfig struct {
	HourHeight     float64
	MinEventHeight float64
}

// DefaultGridConfig returns the geometry used by the scheduling views.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		HourHeight:     64,
		MinEventHeight: 24,
	}
}

// EventBox is the placement of one order inside a day column.
type EventBox struct {
	OrderID string    `json:"order_id"`
	Code    string    `json:"code"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Top     float64   `json:"top"`
	Height  float64   `json:"height"`
}

// SameLocalDay reports whether two instants fall on the same calendar date
// in the location of a. Bucketing must compare date fields, not UTC ranges:
// an order at 23:50 local belongs to its start date even when its UTC
// representation rolls into the next day.
func SameLocalDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// OrdersOn returns the orders whose scheduled start falls on the given
// local date, preserving input order. Orders without a usable start are
// skipped rather than failing the grid.
func OrdersOn(orders []model.ServiceOrder, day time.Time) []model.ServiceOrder {
	var out []model.ServiceOrder
	for _, o := range orders {
		if !o.HasSchedule() {
			continue
		}
		if SameLocalDay(day, o.ScheduledStart) {
			out = append(out, o)
		}
	}
	return out
}

// LayoutDay computes event boxes for every order landing on the given day.
// Orders starting before the visible range are dropped from the layout only;
// the underlying list is untouched.
func LayoutDay(orders []model.ServiceOrder, day time.Time, cfg GridConfig) []EventBox {
	var boxes []EventBox
	for _, o := range OrdersOn(orders, day) {
		box, ok := layoutOrder(&o, cfg)
		if !ok {
			continue
		}
		boxes = append(boxes, box)
	}
	return boxes
}

func layoutOrder(o *model.ServiceOrder, cfg GridConfig) (EventBox, bool) {
	start := o.ScheduledStart
	end := o.EffectiveEnd()

	startOffset := float64((start.Hour()-StartHour)*60 + start.Minute())
	if startOffset < 0 {
		return EventBox{}, false
	}
	endOffset := float64((end.Hour()-StartHour)*60 + end.Minute())

	height := (endOffset - startOffset) / 60 * cfg.HourHeight
	if height < cfg.MinEventHeight {
		height = cfg.MinEventHeight
	}

	return EventBox{
		OrderID: o.ID,
		Code:    o.Code,
		Start:   start,
		End:     end,
		Top:     startOffset / 60 * cfg.HourHeight,
		Height:  height,
	}, true
}

// DayColumn is one rendered day of the week view.
type DayColumn struct {
	Date  time.Time  `json:"date"`
	Boxes []EventBox `json:"boxes"`
}

// WeekStart returns the Sunday on or before the given date, at midnight in
// the date's location.
func WeekStart(date time.Time) time.Time {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// LayoutWeek computes the seven Sunday-first day columns containing the
// given date.
func LayoutWeek(orders []model.ServiceOrder, date time.Time, cfg GridConfig) []DayColumn {
	start := WeekStart(date)
	columns := make([]DayColumn, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		columns = append(columns, DayColumn{
			Date:  day,
			Boxes: LayoutDay(orders, day, cfg),
		})
	}
	return columns
}

// MonthCell is one day cell of the month grid.
type MonthCell struct {
	Date    time.Time            `json:"date"`
	InMonth bool                 `json:"in_month"`
	Orders  []model.ServiceOrder `json:"orders"`
}

// LayoutMonth builds the month grid for the month containing date: complete
// week rows from the Sunday on/before the 1st through the Saturday on/after
// the last day. Cells outside the month still carry their orders; the
// InMonth flag lets the view de-emphasize them.
func LayoutMonth(orders []model.ServiceOrder, date time.Time) [][]MonthCell {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, 6-int(last.Weekday()))

	var rows [][]MonthCell
	for cursor := gridStart; !cursor.After(gridEnd); {
		row := make([]MonthCell, 0, 7)
		for i := 0; i < 7; i++ {
			row = append(row, MonthCell{
				Date:    cursor,
				InMonth: cursor.Month() == date.Month(),
				Orders:  OrdersOn(orders, cursor),
			})
			cursor = cursor.AddDate(0, 0, 1)
		}
		rows = append(rows, row)
	}
	return rows
}
