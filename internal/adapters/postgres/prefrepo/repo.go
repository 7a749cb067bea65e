package prefrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
)

// Repo is a Postgres implementation of prefrepo.Repository.
//
// Sections are flattened into columns with a has_* presence flag each, so a
// record whose budget section was never filled in round-trips as a nil Budget
// rather than a zero-valued one.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const prefColumns = `
	trip_id, member_id,
	has_dates, date_earliest_start, date_latest_end, date_ideal_duration, date_flexible,
	has_budget, budget_min, budget_max,
	budget_include_flights, budget_include_accommodation, budget_include_food, budget_include_activities,
	budget_flexibility,
	has_destination, destination_vibes, destination_scope, destination_specific_places, destination_places_to_avoid,
	has_constraints, constraint_dietary, constraint_other_dietary, constraint_accessibility, constraint_other_accessibility, constraint_hard_nos,
	updated_at
`

func (r *Repo) Upsert(ctx context.Context, p prefrepo.Preference) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}

	var (
		hasDates                bool
		dateEarliest, dateLatest *time.Time
		dateDuration            string
		dateFlexible            bool
	)
	if p.Dates != nil {
		hasDates = true
		dateEarliest = utcPtr(p.Dates.EarliestStart)
		dateLatest = utcPtr(p.Dates.LatestEnd)
		dateDuration = p.Dates.IdealDuration
		dateFlexible = p.Dates.Flexible
	}

	var (
		hasBudget                                      bool
		budgetMin, budgetMax                           float64
		incFlights, incAccommodation, incFood, incActs bool
		flexibility                                    string
	)
	if p.Budget != nil {
		hasBudget = true
		budgetMin = p.Budget.Min
		budgetMax = p.Budget.Max
		incFlights = p.Budget.IncludeFlights
		incAccommodation = p.Budget.IncludeAccommodation
		incFood = p.Budget.IncludeFood
		incActs = p.Budget.IncludeActivities
		flexibility = string(p.Budget.Flexibility)
	}

	var (
		hasDestination         bool
		vibes                  = []string{}
		scope                  string
		specificPlaces, avoids string
	)
	if p.Destination != nil {
		hasDestination = true
		if p.Destination.Vibes != nil {
			vibes = p.Destination.Vibes
		}
		scope = string(p.Destination.Scope)
		specificPlaces = p.Destination.SpecificPlaces
		avoids = p.Destination.PlacesToAvoid
	}

	var (
		hasConstraints                 bool
		dietary                        = []string{}
		otherDietary                   string
		accessibility                  = []string{}
		otherAccessibility             string
		hardNos                        string
	)
	if p.Constraints != nil {
		hasConstraints = true
		if p.Constraints.Dietary != nil {
			dietary = p.Constraints.Dietary
		}
		otherDietary = p.Constraints.OtherDietary
		if p.Constraints.Accessibility != nil {
			accessibility = p.Constraints.Accessibility
		}
		otherAccessibility = p.Constraints.OtherAccessibility
		hardNos = p.Constraints.HardNos
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO trip_preferences (`+prefColumns+`)
		VALUES (
			$1, $2,
			$3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26,
			$27
		)
		ON CONFLICT (trip_id, member_id) DO UPDATE SET
			has_dates = EXCLUDED.has_dates,
			date_earliest_start = EXCLUDED.date_earliest_start,
			date_latest_end = EXCLUDED.date_latest_end,
			date_ideal_duration = EXCLUDED.date_ideal_duration,
			date_flexible = EXCLUDED.date_flexible,
			has_budget = EXCLUDED.has_budget,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			budget_include_flights = EXCLUDED.budget_include_flights,
			budget_include_accommodation = EXCLUDED.budget_include_accommodation,
			budget_include_food = EXCLUDED.budget_include_food,
			budget_include_activities = EXCLUDED.budget_include_activities,
			budget_flexibility = EXCLUDED.budget_flexibility,
			has_destination = EXCLUDED.has_destination,
			destination_vibes = EXCLUDED.destination_vibes,
			destination_scope = EXCLUDED.destination_scope,
			destination_specific_places = EXCLUDED.destination_specific_places,
			destination_places_to_avoid = EXCLUDED.destination_places_to_avoid,
			has_constraints = EXCLUDED.has_constraints,
			constraint_dietary = EXCLUDED.constraint_dietary,
			constraint_other_dietary = EXCLUDED.constraint_other_dietary,
			constraint_accessibility = EXCLUDED.constraint_accessibility,
			constraint_other_accessibility = EXCLUDED.constraint_other_accessibility,
			constraint_hard_nos = EXCLUDED.constraint_hard_nos,
			updated_at = EXCLUDED.updated_at
	`,
		string(p.TripID), string(p.MemberID),
		hasDates, dateEarliest, dateLatest, dateDuration, dateFlexible,
		hasBudget, budgetMin, budgetMax, incFlights, incAccommodation, incFood, incActs, flexibility,
		hasDestination, vibes, scope, specificPlaces, avoids,
		hasConstraints, dietary, otherDietary, accessibility, otherAccessibility, hardNos,
		p.UpdatedAt.UTC(),
	)
	return err
}

func (r *Repo) Get(ctx context.Context, tripID domain.TripID, memberID domain.MemberID) (prefrepo.Preference, error) {
	if r.pool == nil {
		return prefrepo.Preference{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT `+prefColumns+`
		FROM trip_preferences
		WHERE trip_id = $1 AND member_id = $2
	`, string(tripID), string(memberID))
	return scanPreference(row)
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]prefrepo.Preference, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefColumns+`
		FROM trip_preferences
		WHERE trip_id = $1
		ORDER BY member_id ASC
	`, string(tripID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]prefrepo.Preference, 0)
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, tripID domain.TripID, memberID domain.MemberID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM trip_preferences
		WHERE trip_id = $1 AND member_id = $2
	`, string(tripID), string(memberID))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return prefrepo.ErrNotFound
	}
	return nil
}

func scanPreference(row interface {
	Scan(dest ...any) error
}) (prefrepo.Preference, error) {
	var (
		tripID, memberID string

		hasDates                 bool
		dateEarliest, dateLatest *time.Time
		dateDuration             string
		dateFlexible             bool

		hasBudget                                      bool
		budgetMin, budgetMax                           float64
		incFlights, incAccommodation, incFood, incActs bool
		flexibility                                    string

		hasDestination         bool
		vibes                  []string
		scope                  string
		specificPlaces, avoids string

		hasConstraints     bool
		dietary            []string
		otherDietary       string
		accessibility      []string
		otherAccessibility string
		hardNos            string

		updatedAt time.Time
	)
	if err := row.Scan(
		&tripID, &memberID,
		&hasDates, &dateEarliest, &dateLatest, &dateDuration, &dateFlexible,
		&hasBudget, &budgetMin, &budgetMax, &incFlights, &incAccommodation, &incFood, &incActs, &flexibility,
		&hasDestination, &vibes, &scope, &specificPlaces, &avoids,
		&hasConstraints, &dietary, &otherDietary, &accessibility, &otherAccessibility, &hardNos,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return prefrepo.Preference{}, prefrepo.ErrNotFound
		}
		return prefrepo.Preference{}, err
	}

	p := prefrepo.Preference{
		TripID:    domain.TripID(tripID),
		MemberID:  domain.MemberID(memberID),
		UpdatedAt: updatedAt.UTC(),
	}
	if hasDates {
		p.Dates = &domain.DatePrefs{
			EarliestStart: utcPtr(dateEarliest),
			LatestEnd:     utcPtr(dateLatest),
			IdealDuration: dateDuration,
			Flexible:      dateFlexible,
		}
	}
	if hasBudget {
		p.Budget = &domain.BudgetPrefs{
			Min:                  budgetMin,
			Max:                  budgetMax,
			IncludeFlights:       incFlights,
			IncludeAccommodation: incAccommodation,
			IncludeFood:          incFood,
			IncludeActivities:    incActs,
			Flexibility:          domain.BudgetFlexibility(flexibility),
		}
	}
	if hasDestination {
		if vibes == nil {
			vibes = []string{}
		}
		p.Destination = &domain.DestinationPrefs{
			Vibes:          vibes,
			Scope:          domain.TripScope(scope),
			SpecificPlaces: specificPlaces,
			PlacesToAvoid:  avoids,
		}
	}
	if hasConstraints {
		if dietary == nil {
			dietary = []string{}
		}
		if accessibility == nil {
			accessibility = []string{}
		}
		p.Constraints = &domain.ConstraintPrefs{
			Dietary:            dietary,
			OtherDietary:       otherDietary,
			Accessibility:      accessibility,
			OtherAccessibility: otherAccessibility,
			HardNos:            hardNos,
		}
	}
	return p, nil
}

func utcPtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := (*p).UTC()
	return &v
}
