package consensus

import (
	"sort"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

// reduceDestinations intersects and unions vibe tags across the members who
// selected any, tallies scope preferences, and collects free-text place notes
// one entry per member in input order.
func reduceDestinations(views []destinationView) domain.GroupDestination {
	out := domain.GroupDestination{
		CommonVibes:    []string{},
		AllVibes:       []string{},
		VibeCounts:     make(map[string]int),
		PopularScopes:  make(map[domain.TripScope]int),
		SpecificPlaces: []string{},
		PlacesToAvoid:  []string{},
	}

	vibeSets := make([]map[string]struct{}, 0, len(views))
	for _, v := range views {
		if !v.present {
			continue
		}
		out.PopularScopes[v.scope]++
		if v.specificPlaces != "" {
			out.SpecificPlaces = append(out.SpecificPlaces, v.specificPlaces)
		}
		if v.placesToAvoid != "" {
			out.PlacesToAvoid = append(out.PlacesToAvoid, v.placesToAvoid)
		}

		if len(v.vibes) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(v.vibes))
		for _, vibe := range v.vibes {
			set[vibe] = struct{}{}
			out.VibeCounts[vibe]++
		}
		vibeSets = append(vibeSets, set)
	}
	out.MembersWithVibes = len(vibeSets)

	if len(vibeSets) == 0 {
		return out
	}

	for vibe := range out.VibeCounts {
		out.AllVibes = append(out.AllVibes, vibe)
		// A vibe selected by every vibe-contributing member is common.
		if out.VibeCounts[vibe] == len(vibeSets) {
			out.CommonVibes = append(out.CommonVibes, vibe)
		}
	}
	sort.Strings(out.AllVibes)
	sort.Strings(out.CommonVibes)

	return out
}
