package service

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/repository"
)

// resolveKey finds an item by exact ID, then by case-insensitive name.
func resolveKey[T any](items []T, what, key string, id, name func(*T) string) (T, error) {
	for i := range items {
		if id(&items[i]) == key {
			return items[i], nil
		}
	}
	for i := range items {
		if strings.EqualFold(name(&items[i]), strings.TrimSpace(key)) {
			return items[i], nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", what, key, repository.ErrNotFound)
}

func resolveTeam(ds *domain.Dataset, key string) (domain.Team, error) {
	return resolveKey(ds.Teams, "team", key,
		func(t *domain.Team) string { return t.ID },
		func(t *domain.Team) string { return t.Name })
}

func resolveProject(ds *domain.Dataset, key string) (domain.Project, error) {
	return resolveKey(ds.Projects, "project", key,
		func(p *domain.Project) string { return p.ID },
		func(p *domain.Project) string { return p.Name })
}

func resolveQuarter(ds *domain.Dataset, key string) (domain.Cycle, error) {
	var quarters []domain.Cycle
	for _, c := range ds.Cycles {
		if c.Type == domain.CycleQuarterly {
			quarters = append(quarters, c)
		}
	}
	return resolveKey(quarters, "quarter", key,
		func(c *domain.Cycle) string { return c.ID },
		func(c *domain.Cycle) string { return c.Name })
}

func resolveFinancialYear(ds *domain.Dataset, key string) (domain.FinancialYear, error) {
	return resolveKey(ds.FinancialYears, "financial year", key,
		func(fy *domain.FinancialYear) string { return fy.ID },
		func(fy *domain.FinancialYear) string { return fy.Name })
}
