package analytics

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"
)

// WriteExcel renders a summary as an xlsx workbook: one overview sheet plus
// one sheet per top-N section.
func WriteExcel(s Summary, w io.Writer) error {
	f := excelize.NewFile()

	if err := writeOverviewSheet(f, s); err != nil {
		return err
	}
	if err := writePatternSheet(f, s.ProblemPatterns); err != nil {
		return err
	}
	if err := writeMachineSheet(f, s.MachineIssues); err != nil {
		return err
	}
	if err := writeCustomerSheet(f, s.CustomerRecurrence); err != nil {
		return err
	}
	if err := writeDistributionSheet(f, s); err != nil {
		return err
	}

	return f.Write(w)
}

func writeOverviewSheet(f *excelize.File, s Summary) error {
	const sheet = "Overview"
	f.SetSheetName("Sheet1", sheet)

	avg := "n/a"
	if s.AvgResolutionHours != nil {
		avg = fmt.Sprintf("%.1f", *s.AvgResolutionHours)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total orders", s.TotalOrders},
		{"Completed orders", s.CompletedOrders},
		{"Completion rate (%)", s.CompletionRate},
		{"Avg resolution (hours)", avg},
		{"Urgent pending", s.UrgentPending},
		{"Awaiting parts", s.AwaitingParts},
	}
	return writeRows(f, sheet, rows)
}

func writePatternSheet(f *excelize.File, patterns []ProblemPattern) error {
	const sheet = "Problem patterns"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Keyword", "Count", "Percentage"}}
	for _, p := range patterns {
		rows = append(rows, []interface{}{p.Keyword, p.Count, p.Percentage})
	}
	return writeRows(f, sheet, rows)
}

func writeMachineSheet(f *excelize.File, issues []MachineIssue) error {
	const sheet = "Machine issues"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Model", "Orders", "Sample problem"}}
	for _, m := range issues {
		rows = append(rows, []interface{}{m.Model, m.Count, m.Sample})
	}
	return writeRows(f, sheet, rows)
}

func writeCustomerSheet(f *excelize.File, recurrence []CustomerRecurrence) error {
	const sheet = "Customer recurrence"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Customer", "Orders", "Last status"}}
	for _, c := range recurrence {
		rows = append(rows, []interface{}{c.Customer, c.Count, string(c.LastStatus)})
	}
	return writeRows(f, sheet, rows)
}

func writeDistributionSheet(f *excelize.File, s Summary) error {
	const sheet = "Distributions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{"Group", "Value", "Count"}}
	rows = append(rows, distributionRows("status", s.StatusDistribution)...)
	rows = append(rows, distributionRows("type", s.TypeDistribution)...)
	rows = append(rows, distributionRows("priority", s.PriorityDistribution)...)
	return writeRows(f, sheet, rows)
}

func distributionRows(group string, dist map[string]int) [][]interface{} {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows [][]interface{}
	for _, k := range keys {
		rows = append(rows, []interface{}{group, k, dist[k]})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	// Bold header row.
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil && len(rows) > 0 {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}
	return nil
}
