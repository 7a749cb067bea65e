package consensus

import "github.com/tripsync-app/consensus-api/internal/domain"

// Aggregate computes the group profile from the full set of preference records
// present at call time.
//
// It is a pure, total function: partial records are defaulted by the
// extractors, infeasible overlaps come back as conflict data rather than
// errors, and an empty input yields the defined empty-state profile ("no
// responses yet" is a normal state the dashboard renders). There is no
// incremental update; any change to any member's record means recomputing.
func Aggregate(prefs []domain.MemberPreference) domain.AggregatedGroupProfile {
	dateViews := make([]dateView, 0, len(prefs))
	budgetViews := make([]budgetView, 0, len(prefs))
	destViews := make([]destinationView, 0, len(prefs))
	constraintViews := make([]constraintView, 0, len(prefs))
	for _, p := range prefs {
		dateViews = append(dateViews, extractDates(p))
		budgetViews = append(budgetViews, extractBudget(p))
		destViews = append(destViews, extractDestination(p))
		constraintViews = append(constraintViews, extractConstraints(p))
	}

	// The four reductions are independent of one another; only the conflict
	// detector reads across dimensions.
	profile := domain.AggregatedGroupProfile{
		Dates:            reduceDates(dateViews),
		Budget:           reduceBudget(budgetViews),
		Destination:      reduceDestinations(destViews),
		Constraints:      mergeConstraints(constraintViews),
		RespondedMembers: len(prefs),
	}
	profile.Conflicts = detectConflicts(profile.Dates, profile.Budget, profile.Destination)

	return profile
}
