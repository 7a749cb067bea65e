package consensus

import (
	"math"
	"sort"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

// reduceBudget computes the feasibility band over members who answered the
// budget section: the band is [max(min), min(max)], which inverts when the
// group has no common ground. The reducer reports the inverted band as-is;
// flagging it is the conflict detector's job.
func reduceBudget(views []budgetView) domain.GroupBudget {
	out := domain.GroupBudget{
		CommonInclusions:  []string{},
		FlexibilityLevels: make(map[domain.BudgetFlexibility]int),
	}

	var midpointSum float64
	allFlights, allAccommodation, allFood, allActivities := true, true, true, true

	for _, v := range views {
		if !v.present {
			continue
		}
		if out.MembersWithBudgets == 0 {
			out.MinBudget = v.min
			out.MaxBudget = v.max
		} else {
			out.MinBudget = math.Max(out.MinBudget, v.min)
			out.MaxBudget = math.Min(out.MaxBudget, v.max)
		}
		out.MembersWithBudgets++

		midpointSum += (v.min + v.max) / 2
		out.FlexibilityLevels[v.flexibility]++

		allFlights = allFlights && v.includeFlights
		allAccommodation = allAccommodation && v.includeAccommodation
		allFood = allFood && v.includeFood
		allActivities = allActivities && v.includeActivities
	}

	if out.MembersWithBudgets == 0 {
		return out
	}

	out.AverageBudget = round2(midpointSum / float64(out.MembersWithBudgets))

	if allFlights {
		out.CommonInclusions = append(out.CommonInclusions, domain.InclusionFlights)
	}
	if allAccommodation {
		out.CommonInclusions = append(out.CommonInclusions, domain.InclusionAccommodation)
	}
	if allFood {
		out.CommonInclusions = append(out.CommonInclusions, domain.InclusionFood)
	}
	if allActivities {
		out.CommonInclusions = append(out.CommonInclusions, domain.InclusionActivities)
	}
	sort.Strings(out.CommonInclusions)

	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
