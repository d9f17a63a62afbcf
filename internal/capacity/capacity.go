// Package capacity computes team utilisation against allocations for
// iterations, quarters and financial years. Every function is pure and
// degrades to defaults instead of failing on missing data.
package capacity

import (
	"math"
	"sort"

	"github.com/alexanderramin/capplan/internal/domain"
)

// DefaultIterationWeeks is used when no iteration record can be resolved.
const DefaultIterationWeeks = 2

type CapacityCheck struct {
	TeamID              string
	TeamName            string
	IterationNumber     int
	CycleID             string
	AllocatedPercentage float64
	AvailablePercentage float64
	IterationWeeks      int
	CapacityHours       float64
	AllocatedHours      float64
	IsOverAllocated     bool
	IsUnderAllocated    bool
}

// CalculateTeamCapacity sums the allocations of a team for one iteration.
//
// The iteration record is iterations[iterationNumber-1]. An allocation
// belongs to the iteration when its CycleID equals the record's ID. Records
// without a CycleID predate cycle keys and match on IterationNumber instead;
// a record carrying a CycleID never falls back to its iteration number.
func CalculateTeamCapacity(team domain.Team, iterationNumber int, allocations []domain.Allocation, iterations []domain.Cycle) CapacityCheck {
	var iteration *domain.Cycle
	if iterationNumber >= 1 && iterationNumber <= len(iterations) {
		iteration = &iterations[iterationNumber-1]
	}

	var allocated float64
	for i := range allocations {
		a := &allocations[i]
		if a.TeamID != team.ID {
			continue
		}
		if matchesIteration(a, iteration, iterationNumber) {
			allocated += a.Percentage
		}
	}

	weeks := DefaultIterationWeeks
	check := CapacityCheck{
		TeamID:              team.ID,
		TeamName:            team.Name,
		IterationNumber:     iterationNumber,
		AllocatedPercentage: allocated,
	}
	if iteration != nil {
		check.CycleID = iteration.ID
		weeks = IterationWeeks(*iteration)
	}

	check.IterationWeeks = weeks
	check.CapacityHours = team.Capacity * float64(weeks)
	check.AllocatedHours = check.CapacityHours * allocated / 100
	check.AvailablePercentage = math.Max(0, 100-allocated)
	check.IsOverAllocated = allocated > 100
	check.IsUnderAllocated = allocated > 0 && allocated < 100
	return check
}

func matchesIteration(a *domain.Allocation, iteration *domain.Cycle, iterationNumber int) bool {
	if a.CycleID != "" {
		return iteration != nil && a.CycleID == iteration.ID
	}
	return a.IterationNumber == iterationNumber
}

// IterationWeeks returns ceil(days/7) for an iteration, or the default
// when the record has no usable span.
func IterationWeeks(iteration domain.Cycle) int {
	days := iteration.DurationDays()
	if days <= 0 {
		return DefaultIterationWeeks
	}
	return int(math.Ceil(float64(days) / 7))
}

// IterationsForQuarter returns the iteration cycles whose dates lie within
// the quarter, ordered by start date.
func IterationsForQuarter(quarter domain.Cycle, cycles []domain.Cycle) []domain.Cycle {
	var out []domain.Cycle
	for _, c := range cycles {
		if c.Type == domain.CycleIteration && quarter.Contains(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}
