package formatter

import (
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// FormatTeamList renders teams with their weekly capacity. divisions maps
// division IDs to names; unknown IDs are shown as-is.
func FormatTeamList(teams []domain.Team, divisions map[string]string) string {
	if len(teams) == 0 {
		return Dim("No teams match.") + "\n"
	}

	rows := make([][]string, 0, len(teams))
	for _, t := range teams {
		division := divisions[t.DivisionID]
		if division == "" {
			division = t.DivisionID
		}
		if division == "" {
			division = Dim("—")
		}
		targets := Dim("—")
		if len(t.TargetSkills) > 0 {
			targets = strings.Join(t.TargetSkills, ", ")
		}
		rows = append(rows, []string{
			Bold(t.Name),
			division,
			Hours(t.Capacity) + Dim("/wk"),
			TeamStatusPill(t.Status),
			targets,
			Dim(TruncID(t.ID)),
		})
	}
	return RenderTable([]string{"NAME", "DIVISION", "CAPACITY", "STATUS", "TARGET SKILLS", "ID"}, rows, 2)
}
