package calendar

import (
	"testing"
	"time"
)

func TestNavigate(t *testing.T) {
	selected := time.Date(2026, 3, 11, 0, 0, 0, 0, time.Local)
	now := time.Date(2026, 3, 20, 8, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		mode      ViewMode
		direction int
		want      time.Time
	}{
		{"day forward", ViewDay, 1, selected.AddDate(0, 0, 1)},
		{"day back", ViewDay, -1, selected.AddDate(0, 0, -1)},
		{"week forward", ViewWeek, 1, selected.AddDate(0, 0, 7)},
		{"week back", ViewWeek, -1, selected.AddDate(0, 0, -7)},
		{"month forward", ViewMonth, 1, time.Date(2026, 4, 11, 0, 0, 0, 0, time.Local)},
		{"month back", ViewMonth, -1, time.Date(2026, 2, 11, 0, 0, 0, 0, time.Local)},
		{"today", ViewMonth, 0, now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Navigate(View{SelectedDate: selected, Mode: tt.mode}, tt.direction, now)
			if !v.SelectedDate.Equal(tt.want) {
				t.Errorf("SelectedDate = %v, want %v", v.SelectedDate, tt.want)
			}
			if v.Mode != tt.mode {
				t.Errorf("Mode changed to %v", v.Mode)
			}
		})
	}
}

func TestNavigateMonthArithmetic(t *testing.T) {
	// Calendar-month step, not a fixed 30 days: Jan 15 -> Feb 15.
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local)
	v := Navigate(View{SelectedDate: jan, Mode: ViewMonth}, 1, time.Now())
	want := time.Date(2026, 2, 15, 0, 0, 0, 0, time.Local)
	if !v.SelectedDate.Equal(want) {
		t.Errorf("SelectedDate = %v, want %v", v.SelectedDate, want)
	}
}

func TestViewModeIsValid(t *testing.T) {
	for _, m := range []ViewMode{ViewDay, ViewWeek, ViewMonth} {
		if !m.IsValid() {
			t.Errorf("%v should be valid", m)
		}
	}
	if ViewMode("year").IsValid() {
		t.Error("year should be invalid")
	}
}
