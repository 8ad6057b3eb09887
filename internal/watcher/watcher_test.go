package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

type fakeFetcher struct {
	orders []model.ServiceOrder
	err    error
}

func (f *fakeFetcher) FetchOrders(context.Context) ([]model.ServiceOrder, error) {
	return f.orders, f.err
}

type fakeNotifier struct {
	alerts []string
}

func (f *fakeNotifier) Alert(_ context.Context, text string) error {
	f.alerts = append(f.alerts, text)
	return nil
}

func newTestWatcher(fetcher *fakeFetcher, notifier *fakeNotifier, cfg Config) *Watcher {
	logger := zerolog.Nop()
	if notifier == nil {
		return New(fetcher, nil, cfg, &logger)
	}
	return New(fetcher, notifier, cfg, &logger)
}

func TestTickAlertsOnUrgentBacklog(t *testing.T) {
	fetcher := &fakeFetcher{orders: []model.ServiceOrder{
		{Status: model.StatusToDo, Priority: model.PriorityUrgent, Type: model.TypeCorrective, ProblemDescription: "down"},
		{Status: model.StatusCompleted, Priority: model.PriorityLow, Type: model.TypeCorrective, ProblemDescription: "ok"},
	}}
	notifier := &fakeNotifier{}
	w := newTestWatcher(fetcher, notifier, Config{Schedule: "@every 1m"})

	w.Tick(context.Background())

	require.Len(t, notifier.alerts, 1)
	assert.Contains(t, notifier.alerts[0], "1 urgent order")
}

func TestTickAlertsOnAwaitingParts(t *testing.T) {
	orders := []model.ServiceOrder{
		{Status: model.StatusAwaitingParts, Priority: model.PriorityLow, Type: model.TypeCorrective, ProblemDescription: "x"},
		{Status: model.StatusAwaitingParts, Priority: model.PriorityLow, Type: model.TypeCorrective, ProblemDescription: "y"},
	}
	notifier := &fakeNotifier{}
	w := newTestWatcher(&fakeFetcher{orders: orders}, notifier, Config{
		Schedule:           "@every 1m",
		AwaitingPartsAlert: 2,
	})

	w.Tick(context.Background())

	require.Len(t, notifier.alerts, 1)
	assert.Contains(t, notifier.alerts[0], "awaiting parts")
}

func TestTickQuietBelowThresholds(t *testing.T) {
	orders := []model.ServiceOrder{
		{Status: model.StatusAwaitingParts, Priority: model.PriorityLow, Type: model.TypeCorrective, ProblemDescription: "x"},
	}
	notifier := &fakeNotifier{}
	w := newTestWatcher(&fakeFetcher{orders: orders}, notifier, Config{
		Schedule:           "@every 1m",
		AwaitingPartsAlert: 3,
	})

	w.Tick(context.Background())
	assert.Empty(t, notifier.alerts)
}

func TestTickSkipsOnFetchError(t *testing.T) {
	notifier := &fakeNotifier{}
	w := newTestWatcher(&fakeFetcher{err: errors.New("api down")}, notifier, Config{Schedule: "@every 1m"})

	w.Tick(context.Background())
	assert.Empty(t, notifier.alerts)
}

func TestTickWithoutNotifier(t *testing.T) {
	fetcher := &fakeFetcher{orders: []model.ServiceOrder{
		{Status: model.StatusToDo, Priority: model.PriorityUrgent, Type: model.TypeCorrective, ProblemDescription: "x"},
	}}
	w := newTestWatcher(fetcher, nil, Config{Schedule: "@every 1m"})

	// Must not panic with alerting unconfigured.
	w.Tick(context.Background())
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	w := newTestWatcher(&fakeFetcher{}, nil, Config{
		Schedule:   "@every 1m",
		ReportPath: dir,
	})

	w.WriteReport(context.Background())

	name := "service-report_" + time.Now().Format("20060102") + ".xlsx"
	info, err := os.Stat(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := newTestWatcher(&fakeFetcher{}, nil, Config{Schedule: "not a cron expr"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid watch schedule")
}

func TestStartStopsOnContextCancel(t *testing.T) {
	w := newTestWatcher(&fakeFetcher{}, nil, Config{Schedule: "@every 1h"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
