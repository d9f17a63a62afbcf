package capacity

import "github.com/alexanderramin/capplan/internal/domain"

type QuarterUtilization struct {
	QuarterID           string
	QuarterName         string
	Iterations          []CapacityCheck
	AverageUtilization  float64
	PeakUtilization     float64
	OverAllocatedCount  int
	UnderAllocatedCount int
	TotalCapacityHours  float64
	TotalAllocatedHours float64
}

type FinancialYearUtilization struct {
	FinancialYearID    string
	FinancialYearName  string
	Quarters           []QuarterUtilization
	AverageUtilization float64
	OverAllocatedCount int
}

// CalculateQuarterUtilization runs the iteration check for every iteration
// contained in the quarter.
func CalculateQuarterUtilization(team domain.Team, quarter domain.Cycle, allocations []domain.Allocation, cycles []domain.Cycle) QuarterUtilization {
	iterations := IterationsForQuarter(quarter, cycles)
	out := QuarterUtilization{
		QuarterID:   quarter.ID,
		QuarterName: quarter.Name,
		Iterations:  make([]CapacityCheck, 0, len(iterations)),
	}

	var sum float64
	for n := 1; n <= len(iterations); n++ {
		check := CalculateTeamCapacity(team, n, allocations, iterations)
		out.Iterations = append(out.Iterations, check)
		sum += check.AllocatedPercentage
		if check.AllocatedPercentage > out.PeakUtilization {
			out.PeakUtilization = check.AllocatedPercentage
		}
		if check.IsOverAllocated {
			out.OverAllocatedCount++
		}
		if check.IsUnderAllocated {
			out.UnderAllocatedCount++
		}
		out.TotalCapacityHours += check.CapacityHours
		out.TotalAllocatedHours += check.AllocatedHours
	}
	if len(iterations) > 0 {
		out.AverageUtilization = sum / float64(len(iterations))
	}
	return out
}

// CalculateFinancialYearUtilization rolls quarter utilisation up to the
// financial year, in the year's quarter order. Unknown quarter IDs are skipped.
//
// Allocations without a cycle key cannot be placed in a quarter, so they
// match iteration N of every quarter and count once per quarter in the
// yearly average. Import them with a cycle to avoid that.
func CalculateFinancialYearUtilization(team domain.Team, fy domain.FinancialYear, allocations []domain.Allocation, cycles []domain.Cycle) FinancialYearUtilization {
	byID := make(map[string]domain.Cycle, len(cycles))
	for _, c := range cycles {
		byID[c.ID] = c
	}

	out := FinancialYearUtilization{
		FinancialYearID:   fy.ID,
		FinancialYearName: fy.Name,
	}

	var sum float64
	var counted int
	for _, qid := range fy.QuarterIDs {
		quarter, ok := byID[qid]
		if !ok {
			continue
		}
		q := CalculateQuarterUtilization(team, quarter, allocations, cycles)
		out.Quarters = append(out.Quarters, q)
		out.OverAllocatedCount += q.OverAllocatedCount
		if len(q.Iterations) > 0 {
			sum += q.AverageUtilization
			counted++
		}
	}
	if counted > 0 {
		out.AverageUtilization = sum / float64(counted)
	}
	return out
}

type ActualsComparison struct {
	TeamID            string
	IterationNumber   int
	PlannedPercentage float64
	ActualPercentage  float64
	Variance          float64 // actual - planned
	HasActuals        bool
}

// CompareActuals contrasts planned and actual allocation percentages for one
// iteration using the same key precedence as CalculateTeamCapacity.
func CompareActuals(team domain.Team, iterationNumber int, planned []domain.Allocation, actual []domain.ActualAllocation, iterations []domain.Cycle) ActualsComparison {
	check := CalculateTeamCapacity(team, iterationNumber, planned, iterations)

	var iteration *domain.Cycle
	if iterationNumber >= 1 && iterationNumber <= len(iterations) {
		iteration = &iterations[iterationNumber-1]
	}

	out := ActualsComparison{
		TeamID:            team.ID,
		IterationNumber:   iterationNumber,
		PlannedPercentage: check.AllocatedPercentage,
	}
	for _, a := range actual {
		if a.TeamID != team.ID {
			continue
		}
		key := domain.Allocation{CycleID: a.CycleID, IterationNumber: a.IterationNumber}
		if matchesIteration(&key, iteration, iterationNumber) {
			out.ActualPercentage += a.Percentage
			out.HasActuals = true
		}
	}
	out.Variance = out.ActualPercentage - out.PlannedPercentage
	return out
}
