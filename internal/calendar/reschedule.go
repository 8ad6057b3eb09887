package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/metrics"
	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

// ErrUpdatePending is returned when an order is dragged again while its
// previous reschedule is still in flight.
var ErrUpdatePending = errors.New("reschedule already in flight for order")

// Shift is the recomputed schedule of a dragged order.
type Shift struct {
	Start time.Time
	// End is nil for orders without an explicit scheduled end; a synthesized
	// end is used for geometry only and must never be written back.
	End *time.Time
}

// ShiftToHour computes the new schedule for an order dropped on the row of
// targetHour. Only the hour of the drop target matters: the original minute
// offsets and the duration are preserved. The second return value is false
// for a same-hour drop, which must not reach the store.
func ShiftToHour(o *model.ServiceOrder, targetHour int) (Shift, bool) {
	diff := targetHour - o.ScheduledStart.Hour()
	if diff == 0 {
		return Shift{}, false
	}

	shift := Shift{Start: o.ScheduledStart.Add(time.Duration(diff) * time.Hour)}
	if o.ScheduledEnd != nil {
		end := o.ScheduledEnd.Add(time.Duration(diff) * time.Hour)
		shift.End = &end
	}
	return shift, true
}

// OrderUpdater persists a schedule change. Both timestamps go in one call so
// a failed request applies neither.
type OrderUpdater interface {
	UpdateSchedule(ctx context.Context, id string, start time.Time, end *time.Time) error
}

// Rescheduler applies drag-and-drop schedule changes through the store.
// It never mutates the order it is given: on failure the caller keeps
// rendering the last snapshot fetched from the store.
type Rescheduler struct {
	updater OrderUpdater
	logger  *zerolog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewRescheduler creates a rescheduler over the given updater.
func NewRescheduler(updater OrderUpdater, logger *zerolog.Logger) *Rescheduler {
	return &Rescheduler{
		updater: updater,
		logger:  logger,
		pending: make(map[string]struct{}),
	}
}

// DropOnHour handles a drop of the order onto the row of targetHour.
// It returns false without touching the store when the drop lands on the
// order's current hour. Concurrent drops of the same order are rejected
// with ErrUpdatePending until the in-flight update resolves; drops of
// different orders are independent.
func (r *Rescheduler) DropOnHour(ctx context.Context, o *model.ServiceOrder, targetHour int) (bool, error) {
	shift, ok := ShiftToHour(o, targetHour)
	if !ok {
		metrics.IncReschedule("noop")
		return false, nil
	}

	if !r.acquire(o.ID) {
		metrics.IncReschedule("rejected")
		return false, ErrUpdatePending
	}
	defer r.release(o.ID)

	if err := r.updater.UpdateSchedule(ctx, o.ID, shift.Start, shift.End); err != nil {
		metrics.IncReschedule("error")
		r.logger.Error().Err(err).
			Str("order_id", o.ID).
			Int("target_hour", targetHour).
			Msg("reschedule failed")
		return false, fmt.Errorf("update schedule: %w", err)
	}

	metrics.IncReschedule("ok")
	r.logger.Info().
		Str("order_id", o.ID).
		Time("new_start", shift.Start).
		Msg("order rescheduled")
	return true, nil
}

func (r *Rescheduler) acquire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.pending[id]; busy {
		return false
	}
	r.pending[id] = struct{}{}
	return true
}

func (r *Rescheduler) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
}
