package triprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TripID]triprepo.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]triprepo.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	_ = ctx
	if t.ID == "" {
		return triprepo.ErrAlreadyExists // treat empty ID as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) Save(ctx context.Context, t triprepo.Trip) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return triprepo.ErrNotFound
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) AddMember(ctx context.Context, id domain.TripID, member domain.MemberID, joinedAt time.Time) (triprepo.Trip, error) {
	_ = ctx
	// Check-and-append under the write lock so concurrent joins cannot lose
	// each other's appends.
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	if t.HasMember(member) {
		return triprepo.Trip{}, triprepo.ErrMemberExists
	}
	t.MemberIDs = append(append([]domain.MemberID(nil), t.MemberIDs...), member)
	t.UpdatedAt = joinedAt
	r.byID[id] = t
	return cloneTrip(t), nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return triprepo.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]triprepo.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]triprepo.Trip, 0)
	for _, t := range r.byID {
		if t.HasMember(memberID) {
			out = append(out, cloneTrip(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
	return out, nil
}

func cloneTrip(t triprepo.Trip) triprepo.Trip {
	cp := t
	if t.MemberIDs != nil {
		cp.MemberIDs = append([]domain.MemberID(nil), t.MemberIDs...)
	}
	return cp
}
