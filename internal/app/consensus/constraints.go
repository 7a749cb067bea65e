package consensus

import (
	"sort"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

// mergeConstraints unions enumerated dietary/accessibility tags and collects
// hard-no text verbatim. Hard nos keep one entry per member even when the text
// repeats: "no camping" from two different people is two deal-breakers.
func mergeConstraints(views []constraintView) domain.GroupConstraints {
	out := domain.GroupConstraints{
		Dietary:       []string{},
		Accessibility: []string{},
		HardNos:       []string{},
	}

	dietary := make(map[string]struct{})
	accessibility := make(map[string]struct{})

	for _, v := range views {
		if !v.present {
			continue
		}
		out.MembersWithConstraints++
		for _, t := range v.dietary {
			dietary[t] = struct{}{}
		}
		for _, t := range v.accessibility {
			accessibility[t] = struct{}{}
		}
		if v.hardNo != "" {
			out.HardNos = append(out.HardNos, v.hardNo)
		}
	}

	for t := range dietary {
		out.Dietary = append(out.Dietary, t)
	}
	for t := range accessibility {
		out.Accessibility = append(out.Accessibility, t)
	}
	sort.Strings(out.Dietary)
	sort.Strings(out.Accessibility)

	return out
}
