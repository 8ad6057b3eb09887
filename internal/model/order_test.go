package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveEnd(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 15, 0, 0, time.Local)

	t.Run("explicit end wins", func(t *testing.T) {
		end := start.Add(50 * time.Minute)
		o := &ServiceOrder{ScheduledStart: start, ScheduledEnd: &end, EstimatedMinutes: 120}
		assert.Equal(t, end, o.EffectiveEnd())
	})

	t.Run("implied end from estimate", func(t *testing.T) {
		o := &ServiceOrder{ScheduledStart: start, EstimatedMinutes: 90}
		assert.Equal(t, start.Add(90*time.Minute), o.EffectiveEnd())
	})

	t.Run("default estimate is one hour", func(t *testing.T) {
		o := &ServiceOrder{ScheduledStart: start}
		assert.Equal(t, start.Add(time.Hour), o.EffectiveEnd())
	})
}

func TestResolutionDuration(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	finished := started.Add(90 * time.Minute)

	o := &ServiceOrder{StartedAt: &started, FinishedAt: &finished}
	d, ok := o.ResolutionDuration()
	assert.True(t, ok)
	assert.Equal(t, 90*time.Minute, d)

	_, ok = (&ServiceOrder{FinishedAt: &finished}).ResolutionDuration()
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusToDo, StatusEnRoute, true},
		{StatusToDo, StatusInService, true},
		{StatusEnRoute, StatusInService, true},
		{StatusInService, StatusAwaitingParts, true},
		{StatusAwaitingParts, StatusInService, true},
		{StatusInService, StatusCompleted, true},
		{StatusEnRoute, StatusCancelled, true},
		{StatusToDo, StatusCompleted, false},
		{StatusCompleted, StatusInService, false},
		{StatusCancelled, StatusToDo, false},
		{StatusAwaitingParts, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, StatusAwaitingParts.IsValid())
	assert.False(t, Status("done").IsValid())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusInService.IsTerminal())
}
