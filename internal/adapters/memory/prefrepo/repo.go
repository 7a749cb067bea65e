package prefrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
)

type key struct {
	trip   domain.TripID
	member domain.MemberID
}

// Repo is an in-memory implementation of prefrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu    sync.RWMutex
	byKey map[key]prefrepo.Preference
}

func NewRepo() *Repo {
	return &Repo{
		byKey: make(map[key]prefrepo.Preference),
	}
}

func (r *Repo) Upsert(ctx context.Context, p prefrepo.Preference) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey[key{p.TripID, p.MemberID}] = clonePreference(p)
	return nil
}

func (r *Repo) Get(ctx context.Context, tripID domain.TripID, memberID domain.MemberID) (prefrepo.Preference, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byKey[key{tripID, memberID}]
	if !ok {
		return prefrepo.Preference{}, prefrepo.ErrNotFound
	}
	return clonePreference(p), nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]prefrepo.Preference, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]prefrepo.Preference, 0)
	for k, p := range r.byKey {
		if k.trip == tripID {
			out = append(out, clonePreference(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return string(out[i].MemberID) < string(out[j].MemberID)
	})
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, tripID domain.TripID, memberID domain.MemberID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key{tripID, memberID}
	if _, ok := r.byKey[k]; !ok {
		return prefrepo.ErrNotFound
	}
	delete(r.byKey, k)
	return nil
}

// clonePreference deep-copies so callers can't mutate stored state through
// shared pointers or slices.
func clonePreference(p prefrepo.Preference) prefrepo.Preference {
	cp := p
	if p.Dates != nil {
		d := *p.Dates
		d.EarliestStart = cloneTimePtr(p.Dates.EarliestStart)
		d.LatestEnd = cloneTimePtr(p.Dates.LatestEnd)
		cp.Dates = &d
	}
	if p.Budget != nil {
		b := *p.Budget
		cp.Budget = &b
	}
	if p.Destination != nil {
		d := *p.Destination
		if p.Destination.Vibes != nil {
			d.Vibes = append([]string(nil), p.Destination.Vibes...)
		}
		cp.Destination = &d
	}
	if p.Constraints != nil {
		c := *p.Constraints
		if p.Constraints.Dietary != nil {
			c.Dietary = append([]string(nil), p.Constraints.Dietary...)
		}
		if p.Constraints.Accessibility != nil {
			c.Accessibility = append([]string(nil), p.Constraints.Accessibility...)
		}
		cp.Constraints = &c
	}
	return cp
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
