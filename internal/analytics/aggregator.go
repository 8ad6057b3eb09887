// Package analytics derives operational insight from an in-memory list of
// service orders. Compute is a pure function: it is cheap enough to re-run
// in full on every data refresh and holds no state of its own.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/GuiVicS/stellar-field-buddy-sub000/internal/model"
)

// Resolution durations outside (0h, 48h) are treated as bad data and
// excluded from the average.
const outlierResolutionHours = 48

const (
	topPatterns  = 10
	topMachines  = 8
	topCustomers = 8
	sampleMaxLen = 60
)

// ProblemPattern is one keyword's frequency across order text.
type ProblemPattern struct {
	Keyword    string `json:"keyword"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// MachineIssue is the recurrence count for one machine model.
type MachineIssue struct {
	Model  string `json:"model"`
	Count  int    `json:"count"`
	Sample string `json:"sample,omitempty"`
}

// CustomerRecurrence is the order count for one customer.
type CustomerRecurrence struct {
	Customer   string       `json:"customer"`
	Count      int          `json:"count"`
	LastStatus model.Status `json:"last_status"`
}

// Summary is the full analytics report over one order snapshot.
type Summary struct {
	TotalOrders          int                  `json:"total_orders"`
	CompletedOrders      int                  `json:"completed_orders"`
	CompletionRate       int                  `json:"completion_rate"`
	AvgResolutionHours   *float64             `json:"avg_resolution_hours"`
	ProblemPatterns      []ProblemPattern     `json:"problem_patterns"`
	MachineIssues        []MachineIssue       `json:"machine_issues"`
	CustomerRecurrence   []CustomerRecurrence `json:"customer_recurrence"`
	StatusDistribution   map[string]int       `json:"status_distribution"`
	TypeDistribution     map[string]int       `json:"type_distribution"`
	PriorityDistribution map[string]int       `json:"priority_distribution"`
	UrgentPending        int                  `json:"urgent_pending"`
	AwaitingParts        int                  `json:"awaiting_parts"`
}

// Compute aggregates the given orders into a Summary. An empty or nil list
// yields a zeroed summary; there are no error paths.
func Compute(orders []model.ServiceOrder) Summary {
	s := Summary{
		TotalOrders:          len(orders),
		StatusDistribution:   make(map[string]int),
		TypeDistribution:     make(map[string]int),
		PriorityDistribution: make(map[string]int),
	}

	var resolutionSum float64
	var resolutionSamples int
	keywordCounts := make(map[string]int)
	machineCounts := make(map[string]int)
	machineSamples := make(map[string]string)
	customerCounts := make(map[string]int)
	customerLast := make(map[string]model.Status)

	for i := range orders {
		o := &orders[i]

		s.StatusDistribution[string(o.Status)]++
		s.TypeDistribution[string(o.Type)]++
		s.PriorityDistribution[string(o.Priority)]++

		if o.Status == model.StatusCompleted {
			s.CompletedOrders++
			if d, ok := o.ResolutionDuration(); ok {
				hours := d.Hours()
				if hours > 0 && hours < outlierResolutionHours {
					resolutionSum += hours
					resolutionSamples++
				}
			}
		}

		if o.Priority == model.PriorityUrgent && !o.Status.IsTerminal() {
			s.UrgentPending++
		}
		if o.Status == model.StatusAwaitingParts {
			s.AwaitingParts++
		}

		text := strings.ToLower(o.ProblemDescription + " " + o.Diagnosis + " " + o.Resolution)
		for _, kw := range problemKeywords {
			if strings.Contains(text, kw) {
				keywordCounts[kw]++
			}
		}

		if o.Machine != nil && o.Machine.Model != "" {
			machineCounts[o.Machine.Model]++
			if _, seen := machineSamples[o.Machine.Model]; !seen {
				machineSamples[o.Machine.Model] = truncate(o.ProblemDescription, sampleMaxLen)
			}
		}

		if o.Customer != nil && o.Customer.Name != "" {
			customerCounts[o.Customer.Name]++
			customerLast[o.Customer.Name] = o.Status
		}
	}

	if s.TotalOrders > 0 {
		s.CompletionRate = roundPercent(s.CompletedOrders, s.TotalOrders)
	}
	if resolutionSamples > 0 {
		avg := math.Round(resolutionSum/float64(resolutionSamples)*10) / 10
		s.AvgResolutionHours = &avg
	}

	s.ProblemPatterns = topKeywords(keywordCounts, s.TotalOrders)
	s.MachineIssues = topMachineIssues(machineCounts, machineSamples)
	s.CustomerRecurrence = topCustomerRecurrence(customerCounts, customerLast)

	return s
}

func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// topKeywords keeps the vocabulary's declaration order for equal counts so
// output is deterministic for a fixed input.
func topKeywords(counts map[string]int, total int) []ProblemPattern {
	var patterns []ProblemPattern
	for _, kw := range problemKeywords {
		count := counts[kw]
		if count == 0 {
			continue
		}
		pct := 0
		if total > 0 {
			pct = roundPercent(count, total)
		}
		patterns = append(patterns, ProblemPattern{Keyword: kw, Count: count, Percentage: pct})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Count > patterns[j].Count
	})
	if len(patterns) > topPatterns {
		patterns = patterns[:topPatterns]
	}
	return patterns
}

func topMachineIssues(counts map[string]int, samples map[string]string) []MachineIssue {
	var issues []MachineIssue
	for _, m := range sortedKeys(counts) {
		issues = append(issues, MachineIssue{
			Model:  m,
			Count:  counts[m],
			Sample: samples[m],
		})
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Count > issues[j].Count
	})
	if len(issues) > topMachines {
		issues = issues[:topMachines]
	}
	return issues
}

func topCustomerRecurrence(counts map[string]int, last map[string]model.Status) []CustomerRecurrence {
	var recurrence []CustomerRecurrence
	for _, c := range sortedKeys(counts) {
		recurrence = append(recurrence, CustomerRecurrence{
			Customer:   c,
			Count:      counts[c],
			LastStatus: last[c],
		})
	}
	sort.SliceStable(recurrence, func(i, j int) bool {
		return recurrence[i].Count > recurrence[j].Count
	})
	if len(recurrence) > topCustomers {
		recurrence = recurrence[:topCustomers]
	}
	return recurrence
}

// sortedKeys gives map iteration a deterministic base order before the
// stable count sort.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
