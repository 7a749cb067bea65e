package preferences

import "time"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// DatesInput is the date section of a preference submission.
// A window is stated with both bounds; a lone bound is kept but contributes
// nothing to overlap computation.
type DatesInput struct {
	EarliestStart *time.Time `validate:"omitempty"`
	LatestEnd     *time.Time `validate:"omitempty"`
	IdealDuration string     `validate:"max=60"`
	Flexible      bool
}

type BudgetInput struct {
	Min float64 `validate:"gte=0"`
	Max float64 `validate:"gte=0"`

	IncludeFlights       bool
	IncludeAccommodation bool
	IncludeFood          bool
	IncludeActivities    bool

	// Empty defaults to "hard limit" downstream.
	Flexibility string `validate:"omitempty,oneof='hard limit' 'prefer under' 'no limit'"`
}

type DestinationInput struct {
	Vibes []string `validate:"max=25,dive,max=60"`

	// Empty defaults to "either" downstream.
	Scope string `validate:"omitempty,oneof=domestic international either"`

	SpecificPlaces string `validate:"max=2000"`
	PlacesToAvoid  string `validate:"max=2000"`
}

type ConstraintsInput struct {
	Dietary      []string `validate:"max=25,dive,max=60"`
	OtherDietary string   `validate:"max=500"`

	Accessibility      []string `validate:"max=25,dive,max=60"`
	OtherAccessibility string   `validate:"max=500"`

	HardNos string `validate:"max=2000"`
}

// PutPreferenceInput replaces the caller's record wholesale. Nil sections mean
// "not filled in" and overwrite whatever was stored before.
type PutPreferenceInput struct {
	Dates       *DatesInput       `validate:"omitempty"`
	Budget      *BudgetInput      `validate:"omitempty"`
	Destination *DestinationInput `validate:"omitempty"`
	Constraints *ConstraintsInput `validate:"omitempty"`
}

// PatchPreferenceInput updates sections individually: unspecified keeps the
// stored section, null clears it, a value replaces it wholesale.
type PatchPreferenceInput struct {
	Dates       Optional[DatesInput]
	Budget      Optional[BudgetInput]
	Destination Optional[DestinationInput]
	Constraints Optional[ConstraintsInput]
}
