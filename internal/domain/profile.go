package domain

import "time"

// DateRange is a closed interval of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// GroupDateWindow is the reduced view of everyone's availability.
type GroupDateWindow struct {
	// EarliestCommonStart is max(earliestStart) over contributing members,
	// LatestCommonEnd is min(latestEnd). Both nil when nobody supplied dates.
	EarliestCommonStart *time.Time
	LatestCommonEnd     *time.Time

	// CommonWindow is non-nil only when a feasible window exists.
	CommonWindow *DateRange
	OverlapDays  int

	IdealDurations []string

	MembersWithDates int
}

// GroupBudget is the feasibility band over contributing members' budgets.
// When infeasible, MinBudget > MaxBudget; the conflict detector flags it.
type GroupBudget struct {
	MinBudget float64
	MaxBudget float64

	AverageBudget float64

	// CommonInclusions are the cost categories every contributing member agreed
	// to include (AND across the group).
	CommonInclusions []string

	FlexibilityLevels map[BudgetFlexibility]int

	MembersWithBudgets int
}

// GroupDestination is the merged view of vibes and place preferences.
type GroupDestination struct {
	CommonVibes []string
	AllVibes    []string
	VibeCounts  map[string]int

	PopularScopes map[TripScope]int

	// One entry per member who supplied the corresponding free text, in input order.
	SpecificPlaces []string
	PlacesToAvoid  []string

	MembersWithVibes int
}

// GroupConstraints is the union of everyone's hard requirements.
type GroupConstraints struct {
	Dietary       []string
	Accessibility []string

	// HardNos keeps one verbatim entry per member; similar text is NOT collapsed
	// because deal-breakers are narrative and may differ in meaning.
	HardNos []string

	MembersWithConstraints int
}

// ConflictReport flags the dimensions on which the group has no feasible overlap.
// Conflicts are data, not errors: callers render them.
type ConflictReport struct {
	HasConflicts bool

	NoDateOverlap   bool
	NoBudgetOverlap bool
	NoCommonVibes   bool

	Details []string
}

// AggregatedGroupProfile is the full output of preference aggregation.
// It is a pure function of the preference records it was computed from and is
// recomputed fresh on every request.
type AggregatedGroupProfile struct {
	Dates       GroupDateWindow
	Budget      GroupBudget
	Destination GroupDestination
	Constraints GroupConstraints
	Conflicts   ConflictReport

	RespondedMembers int
}

// GroupConsensus wraps the profile with roster metadata the pure aggregation
// cannot know about.
type GroupConsensus struct {
	TripID TripID

	Profile AggregatedGroupProfile

	TotalMembers int
	// ResponseRate is a percentage in [0,100], rounded to one decimal.
	ResponseRate float64
}
