package consensus

import "github.com/tripsync-app/consensus-api/internal/domain"

// Conflict detail strings are fixed so dashboards and tests can match on them.
const (
	DetailNoDateOverlap   = "No date window works for everyone: the latest earliest-start falls after the earliest latest-end."
	DetailNoBudgetOverlap = "Budgets do not overlap: the highest minimum budget exceeds the lowest maximum budget."
	DetailNoCommonVibes   = "Members selected destination vibes, but no single vibe is shared by everyone."
)

// detectConflicts inspects the reduced outputs and flags the dimensions with no
// feasible overlap. It only reads what the reducers produced; missing data is
// never a conflict, so a dimension nobody answered stays unflagged.
// Details are appended in fixed order: dates, budget, vibes.
func detectConflicts(dates domain.GroupDateWindow, budget domain.GroupBudget, dest domain.GroupDestination) domain.ConflictReport {
	r := domain.ConflictReport{Details: []string{}}

	if dates.MembersWithDates > 0 && dates.CommonWindow == nil {
		r.NoDateOverlap = true
		r.Details = append(r.Details, DetailNoDateOverlap)
	}
	if budget.MembersWithBudgets > 0 && budget.MinBudget > budget.MaxBudget {
		r.NoBudgetOverlap = true
		r.Details = append(r.Details, DetailNoBudgetOverlap)
	}
	if len(dest.AllVibes) > 0 && len(dest.CommonVibes) == 0 {
		r.NoCommonVibes = true
		r.Details = append(r.Details, DetailNoCommonVibes)
	}

	r.HasConflicts = len(r.Details) > 0
	return r
}
