package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

func completed(problem string, resolutionHours float64) model.ServiceOrder {
	started := time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local)
	finished := started.Add(time.Duration(resolutionHours * float64(time.Hour)))
	return model.ServiceOrder{
		Status:             model.StatusCompleted,
		Priority:           model.PriorityMedium,
		Type:               model.TypeCorrective,
		ProblemDescription: problem,
		StartedAt:          &started,
		FinishedAt:         &finished,
	}
}

func TestComputeEmptyInput(t *testing.T) {
	s := Compute(nil)

	assert.Equal(t, 0, s.TotalOrders)
	assert.Equal(t, 0, s.CompletionRate)
	assert.Nil(t, s.AvgResolutionHours)
	assert.Empty(t, s.ProblemPatterns)
	assert.Empty(t, s.MachineIssues)
	assert.Empty(t, s.CustomerRecurrence)
	assert.Empty(t, s.StatusDistribution)
	assert.Equal(t, 0, s.UrgentPending)
	assert.Equal(t, 0, s.AwaitingParts)
}

func TestCompletionRate(t *testing.T) {
	orders := []model.ServiceOrder{
		completed("ok", 1),
		completed("ok", 1),
		completed("ok", 1),
		{Status: model.StatusToDo, Priority: model.PriorityLow, Type: model.TypePreventive, ProblemDescription: "x"},
	}

	s := Compute(orders)
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 3, s.CompletedOrders)
	assert.Equal(t, 75, s.CompletionRate)
}

func TestAvgResolutionExcludesOutliers(t *testing.T) {
	missingStart := completed("no start", 2)
	missingStart.StartedAt = nil

	orders := []model.ServiceOrder{
		completed("a", 1.5),
		completed("b", 2.0),
		completed("c", 50), // outlier, dropped
		missingStart,       // incomplete, dropped
	}

	s := Compute(orders)
	require.NotNil(t, s.AvgResolutionHours)
	// (1.5 + 2.0) / 2, rounded to one decimal.
	assert.InDelta(t, 1.8, *s.AvgResolutionHours, 0.001)
}

func TestAvgResolutionNilWithoutSamples(t *testing.T) {
	orders := []model.ServiceOrder{
		completed("zero", 0),  // non-positive duration, dropped
		completed("huge", 72), // outlier, dropped
	}
	s := Compute(orders)
	assert.Nil(t, s.AvgResolutionHours)
}

func TestProblemPatterns(t *testing.T) {
	orders := make([]model.ServiceOrder, 0, 10)
	for i := 0; i < 10; i++ {
		o := model.ServiceOrder{
			Status:             model.StatusToDo,
			Priority:           model.PriorityLow,
			Type:               model.TypeCorrective,
			ProblemDescription: "general checkup",
		}
		switch i {
		case 0:
			o.ProblemDescription = "Toner leaking everywhere"
		case 1:
			o.Diagnosis = "empty TONER cartridge"
		case 2:
			o.Resolution = "replaced toner"
		}
		orders = append(orders, o)
	}

	s := Compute(orders)

	var toner *ProblemPattern
	for i := range s.ProblemPatterns {
		if s.ProblemPatterns[i].Keyword == "toner" {
			toner = &s.ProblemPatterns[i]
		}
	}
	require.NotNil(t, toner)
	assert.Equal(t, 3, toner.Count)
	assert.Equal(t, 30, toner.Percentage)
}

func TestProblemPatternsTopTen(t *testing.T) {
	// One order mentioning more than ten keywords caps the list at ten.
	text := strings.Join(problemKeywords, ", ")
	s := Compute([]model.ServiceOrder{{
		Status:             model.StatusToDo,
		Priority:           model.PriorityLow,
		Type:               model.TypeCorrective,
		ProblemDescription: text,
	}})
	assert.Len(t, s.ProblemPatterns, 10)
}

func TestMachineIssues(t *testing.T) {
	mk := func(machineModel, problem string) model.ServiceOrder {
		return model.ServiceOrder{
			Status:             model.StatusToDo,
			Priority:           model.PriorityLow,
			Type:               model.TypeCorrective,
			ProblemDescription: problem,
			Machine:            &model.Machine{ID: "m", Model: machineModel},
		}
	}

	longProblem := strings.Repeat("paper feed keeps slipping ", 4) // > 60 chars
	orders := []model.ServiceOrder{
		mk("HL-2370", longProblem),
		mk("HL-2370", "second issue"),
		mk("MFC-L8900", "fuser noise"),
	}

	s := Compute(orders)
	require.Len(t, s.MachineIssues, 2)
	assert.Equal(t, "HL-2370", s.MachineIssues[0].Model)
	assert.Equal(t, 2, s.MachineIssues[0].Count)
	// Sample comes from the first order seen and is truncated at 60 chars.
	assert.True(t, strings.HasSuffix(s.MachineIssues[0].Sample, "..."))
	assert.Len(t, s.MachineIssues[0].Sample, 63)
}

func TestCustomerRecurrenceLastStatus(t *testing.T) {
	mk := func(name string, status model.Status) model.ServiceOrder {
		return model.ServiceOrder{
			Status:             status,
			Priority:           model.PriorityLow,
			Type:               model.TypeCorrective,
			ProblemDescription: "x",
			Customer:           &model.Customer{ID: "c", Name: name},
		}
	}

	orders := []model.ServiceOrder{
		mk("Acme", model.StatusCompleted),
		mk("Acme", model.StatusToDo),
		mk("Beta", model.StatusInService),
	}

	s := Compute(orders)
	require.Len(t, s.CustomerRecurrence, 2)
	assert.Equal(t, "Acme", s.CustomerRecurrence[0].Customer)
	assert.Equal(t, 2, s.CustomerRecurrence[0].Count)
	// Last in input order wins, not the most recent by time.
	assert.Equal(t, model.StatusToDo, s.CustomerRecurrence[0].LastStatus)
}

func TestUrgentPendingAndAwaitingParts(t *testing.T) {
	mk := func(status model.Status, priority model.Priority) model.ServiceOrder {
		return model.ServiceOrder{
			Status:             status,
			Priority:           priority,
			Type:               model.TypeCorrective,
			ProblemDescription: "x",
		}
	}

	orders := []model.ServiceOrder{
		mk(model.StatusToDo, model.PriorityUrgent),
		mk(model.StatusAwaitingParts, model.PriorityUrgent),
		mk(model.StatusCompleted, model.PriorityUrgent), // terminal, not pending
		mk(model.StatusCancelled, model.PriorityUrgent), // terminal, not pending
		mk(model.StatusAwaitingParts, model.PriorityLow),
	}

	s := Compute(orders)
	assert.Equal(t, 2, s.UrgentPending)
	assert.Equal(t, 2, s.AwaitingParts)
}

func TestDistributionsAreSparse(t *testing.T) {
	orders := []model.ServiceOrder{
		{Status: model.StatusToDo, Priority: model.PriorityHigh, Type: model.TypeInstallation, ProblemDescription: "x"},
		{Status: model.StatusToDo, Priority: model.PriorityHigh, Type: model.TypeTraining, ProblemDescription: "x"},
	}

	s := Compute(orders)
	assert.Equal(t, map[string]int{"to_do": 2}, s.StatusDistribution)
	assert.Equal(t, map[string]int{"high": 2}, s.PriorityDistribution)
	assert.Equal(t, map[string]int{"installation": 1, "training": 1}, s.TypeDistribution)
}
