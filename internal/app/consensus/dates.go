package consensus

import (
	"sort"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

// reduceDates intersects the availability windows of every member who stated
// both bounds. "No data" and "no overlap" are kept distinct: with zero
// contributors the bounds stay nil and the conflict detector stays quiet.
func reduceDates(views []dateView) domain.GroupDateWindow {
	out := domain.GroupDateWindow{IdealDurations: []string{}}

	durations := make(map[string]struct{})
	for _, v := range views {
		// Duration labels are collected from everyone, overlap or not.
		if v.idealDuration != "" {
			durations[v.idealDuration] = struct{}{}
		}
	}
	for d := range durations {
		out.IdealDurations = append(out.IdealDurations, d)
	}
	sort.Strings(out.IdealDurations)

	for _, v := range views {
		if !v.hasWindow() {
			continue
		}
		out.MembersWithDates++
		start := *v.earliestStart
		end := *v.latestEnd
		if out.EarliestCommonStart == nil || start.After(*out.EarliestCommonStart) {
			out.EarliestCommonStart = &start
		}
		if out.LatestCommonEnd == nil || end.Before(*out.LatestCommonEnd) {
			out.LatestCommonEnd = &end
		}
	}

	if out.MembersWithDates == 0 {
		return out
	}

	if !out.EarliestCommonStart.After(*out.LatestCommonEnd) {
		out.CommonWindow = &domain.DateRange{
			Start: *out.EarliestCommonStart,
			End:   *out.LatestCommonEnd,
		}
		// Inclusive day count: a window from the 8th to the 10th is 3 days.
		out.OverlapDays = int(out.LatestCommonEnd.Sub(*out.EarliestCommonStart).Hours()/24) + 1
	}

	return out
}
