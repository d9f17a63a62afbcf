package finance

import (
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
)

const (
	HoursPerDay        = 8
	WorkingDaysPerYear = 260
	DaysPerMonth       = 30.44
)

// CalculatePersonRate returns the person's cost per working day. Personal
// overrides win over the role defaults; a person with no resolvable rate
// costs nothing.
func CalculatePersonRate(person domain.Person, role *domain.Role) float64 {
	switch {
	case person.DailyRate != nil:
		return *person.DailyRate
	case person.HourlyRate != nil:
		return *person.HourlyRate * HoursPerDay
	case person.AnnualSalary != nil:
		return *person.AnnualSalary / WorkingDaysPerYear
	}
	if role == nil {
		return 0
	}
	if role.DefaultRate != nil {
		return normalise(*role.DefaultRate, role.RateType)
	}
	switch role.RateType {
	case domain.RateHourly:
		if role.DefaultHourlyRate != nil {
			return *role.DefaultHourlyRate * HoursPerDay
		}
	case domain.RateAnnual:
		if role.DefaultAnnualSalary != nil {
			return *role.DefaultAnnualSalary / WorkingDaysPerYear
		}
	default:
		if role.DefaultDailyRate != nil {
			return *role.DefaultDailyRate
		}
	}
	// Rate type disagrees with the populated field; take whatever exists.
	switch {
	case role.DefaultDailyRate != nil:
		return *role.DefaultDailyRate
	case role.DefaultHourlyRate != nil:
		return *role.DefaultHourlyRate * HoursPerDay
	case role.DefaultAnnualSalary != nil:
		return *role.DefaultAnnualSalary / WorkingDaysPerYear
	}
	return 0
}

func normalise(rate float64, rt domain.RateType) float64 {
	switch rt {
	case domain.RateHourly:
		return rate * HoursPerDay
	case domain.RateAnnual:
		return rate / WorkingDaysPerYear
	default:
		return rate
	}
}

// WorkingDays counts Monday to Friday between start and end, both inclusive.
func WorkingDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}

	total := domain.DaysBetween(s, e) + 1
	days := (total / 7) * 5
	for d := s.AddDate(0, 0, (total/7)*7); !d.After(e); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
