package analytics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

func TestWriteExcel(t *testing.T) {
	avg := 2.5
	s := Summary{
		TotalOrders:        4,
		CompletedOrders:    3,
		CompletionRate:     75,
		AvgResolutionHours: &avg,
		ProblemPatterns: []ProblemPattern{
			{Keyword: "toner", Count: 3, Percentage: 75},
		},
		MachineIssues: []MachineIssue{
			{Model: "HL-2370", Count: 2, Sample: "paper feed slipping"},
		},
		CustomerRecurrence: []CustomerRecurrence{
			{Customer: "Acme", Count: 2, LastStatus: model.StatusToDo},
		},
		StatusDistribution: map[string]int{"to_do": 1, "completed": 3},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExcel(s, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{
		"Overview", "Problem patterns", "Machine issues",
		"Customer recurrence", "Distributions",
	}, f.GetSheetList())

	val, err := f.GetCellValue("Overview", "B4")
	require.NoError(t, err)
	assert.Equal(t, "75", val)

	val, err = f.GetCellValue("Problem patterns", "A2")
	require.NoError(t, err)
	assert.Equal(t, "toner", val)

	val, err = f.GetCellValue("Customer recurrence", "C2")
	require.NoError(t, err)
	assert.Equal(t, "to_do", val)
}

func TestWriteExcelEmptySummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(Compute(nil), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	val, err := f.GetCellValue("Overview", "B5")
	require.NoError(t, err)
	assert.Equal(t, "n/a", val)
}
