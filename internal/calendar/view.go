package calendar

import "time"

// ViewMode selects the calendar granularity.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// IsValid reports whether the mode is one of day, week or month.
func (m ViewMode) IsValid() bool {
	return m == ViewDay || m == ViewWeek || m == ViewMonth
}

// View is the transient per-session calendar state. Geometry stays a pure
// function of (orders, view); nothing here is persisted.
type View struct {
	SelectedDate time.Time
	Mode         ViewMode
}

// Navigate moves the view by direction units of the current granularity:
// -1/+1 step one day, week or calendar month; 0 jumps to now (today) while
// keeping the mode.
func Navigate(v View, direction int, now time.Time) View {
	if direction == 0 {
		return View{SelectedDate: now, Mode: v.Mode}
	}

	next := v
	switch v.Mode {
	case ViewWeek:
		next.SelectedDate = v.SelectedDate.AddDate(0, 0, 7*direction)
	case ViewMonth:
		next.SelectedDate = v.SelectedDate.AddDate(0, direction, 0)
	default:
		next.SelectedDate = v.SelectedDate.AddDate(0, 0, direction)
	}
	return next
}
