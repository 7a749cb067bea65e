package domain

import "time"

// TripScope is a member's domestic/international leaning.
type TripScope string

const (
	ScopeDomestic      TripScope = "domestic"
	ScopeInternational TripScope = "international"
	ScopeEither        TripScope = "either"
)

// BudgetFlexibility describes how hard a member's budget ceiling is.
type BudgetFlexibility string

const (
	BudgetHardLimit   BudgetFlexibility = "hard limit"
	BudgetPreferUnder BudgetFlexibility = "prefer under"
	BudgetNoLimit     BudgetFlexibility = "no limit"
)

// DefaultBudgetFlexibility is substituted when a member leaves the field blank.
const DefaultBudgetFlexibility = BudgetHardLimit

// Budget cost categories every member can opt in or out of.
const (
	InclusionFlights       = "flights"
	InclusionAccommodation = "accommodation"
	InclusionFood          = "food"
	InclusionActivities    = "activities"
)

// DatePrefs is one member's availability window.
// Nil start/end means the member never answered the date question.
type DatePrefs struct {
	EarliestStart *time.Time
	LatestEnd     *time.Time

	// IdealDuration is a label like "2-3 days" or "1 week"; empty means unset.
	IdealDuration string
	Flexible      bool
}

// BudgetPrefs is one member's per-person budget range in whole currency units.
type BudgetPrefs struct {
	Min float64
	Max float64

	IncludeFlights       bool
	IncludeAccommodation bool
	IncludeFood          bool
	IncludeActivities    bool

	Flexibility BudgetFlexibility
}

// DestinationPrefs captures what kind of trip a member wants.
type DestinationPrefs struct {
	// Vibes are tags like "Beach", "City", "Nightlife".
	Vibes []string
	Scope TripScope

	// SpecificPlaces and PlacesToAvoid are free text, one blob per member.
	SpecificPlaces string
	PlacesToAvoid  string
}

// ConstraintPrefs are a member's hard requirements.
type ConstraintPrefs struct {
	Dietary      []string
	OtherDietary string

	Accessibility      []string
	OtherAccessibility string

	// HardNos is verbatim deal-breaker text; it is never deduplicated downstream.
	HardNos string
}

// MemberPreference is one member's (possibly partial) answer to the preference
// form. Every sub-object is optional: nil means that section was never filled in,
// which is a normal state and never an error.
type MemberPreference struct {
	TripID   TripID
	MemberID MemberID

	Dates       *DatePrefs
	Budget      *BudgetPrefs
	Destination *DestinationPrefs
	Constraints *ConstraintPrefs

	UpdatedAt time.Time
}
