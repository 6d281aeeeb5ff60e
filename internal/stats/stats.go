// Package stats computes dashboard aggregates from a task collection.
package stats

import (
	"sort"
	"time"

	"flowsync/internal/models"
)

const week = 7 * 24 * time.Hour

var (
	statusOrder   = []string{models.StatusPending, models.StatusInProgress, models.StatusCompleted}
	priorityOrder = []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
)

// Compute partitions tasks by status and priority and counts overdue and
// recently completed ones relative to now. Only non-zero groups are listed.
func Compute(tasks []models.Task, now time.Time) models.TaskStats {
	byStatus := map[string]int{}
	byPriority := map[string]int{}
	out := models.TaskStats{
		ByStatus:   []models.StatusCount{},
		ByPriority: []models.PriorityCount{},
	}

	for _, t := range tasks {
		byStatus[t.Status]++
		byPriority[t.Priority]++

		if IsOverdue(t, now) {
			out.Overdue++
		}
		if t.Status == models.StatusCompleted && t.CompletedAt != nil && !t.CompletedAt.Before(now.Add(-week)) {
			out.CompletedThisWeek++
		}
	}

	for _, s := range ordered(byStatus, statusOrder) {
		out.ByStatus = append(out.ByStatus, models.StatusCount{Status: s, Count: byStatus[s]})
	}
	for _, p := range ordered(byPriority, priorityOrder) {
		out.ByPriority = append(out.ByPriority, models.PriorityCount{Priority: p, Count: byPriority[p]})
	}
	return out
}

// IsOverdue reports whether t is past its due date and not completed.
func IsOverdue(t models.Task, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != models.StatusCompleted
}

// ordered returns the keys of counts, known keys first in their fixed
// order, unknown ones after them alphabetically.
func ordered(counts map[string]int, known []string) []string {
	keys := make([]string, 0, len(counts))
	seen := map[string]bool{}
	for _, k := range known {
		if counts[k] > 0 {
			keys = append(keys, k)
		}
		seen[k] = true
	}
	var rest []string
	for k, n := range counts {
		if !seen[k] && n > 0 {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
