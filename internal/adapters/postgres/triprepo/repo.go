package triprepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/tripsync-app/consensus-api/internal/adapters/postgres"
	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t triprepo.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	if t.ID == "" {
		return triprepo.ErrAlreadyExists // treat empty ID as invalid
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO trips (id, name, organizer_member_id, member_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		string(t.ID),
		t.Name,
		string(t.Organizer),
		memberIDsToText(t.MemberIDs),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, t triprepo.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE trips
		SET name = $2,
		    organizer_member_id = $3,
		    member_ids = $4,
		    updated_at = $5
		WHERE id = $1
	`,
		string(t.ID),
		t.Name,
		string(t.Organizer),
		memberIDsToText(t.MemberIDs),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) AddMember(ctx context.Context, id domain.TripID, member domain.MemberID, joinedAt time.Time) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	// Guarded array_append in one statement; row-level locking serializes
	// concurrent joins so no append is lost.
	row := r.pool.QueryRow(ctx, `
		UPDATE trips
		SET member_ids = array_append(member_ids, $2),
		    updated_at = $3
		WHERE id = $1
		  AND NOT member_ids @> ARRAY[$2]::text[]
		RETURNING id, name, organizer_member_id, member_ids, created_at, updated_at
	`,
		string(id),
		string(member),
		joinedAt.UTC(),
	)
	t, err := scanTrip(row)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, triprepo.ErrNotFound) {
		return triprepo.Trip{}, err
	}
	// No row updated: either the trip is missing or the member is already on
	// it. A follow-up read tells the two apart.
	if _, gerr := r.GetByID(ctx, id); gerr != nil {
		return triprepo.Trip{}, gerr
	}
	return triprepo.Trip{}, triprepo.ErrMemberExists
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (triprepo.Trip, error) {
	if r.pool == nil {
		return triprepo.Trip{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, organizer_member_id, member_ids, created_at, updated_at
		FROM trips
		WHERE id = $1
	`, string(id))
	return scanTrip(row)
}

func (r *Repo) ListByMember(ctx context.Context, memberID domain.MemberID) ([]triprepo.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, organizer_member_id, member_ids, created_at, updated_at
		FROM trips
		WHERE member_ids @> ARRAY[$1]::text[]
		ORDER BY created_at ASC, id ASC
	`, string(memberID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]triprepo.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanTrip(row interface {
	Scan(dest ...any) error
}) (triprepo.Trip, error) {
	var (
		id        string
		name      string
		organizer string
		memberIDs []string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &organizer, &memberIDs, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return triprepo.Trip{}, triprepo.ErrNotFound
		}
		return triprepo.Trip{}, err
	}
	members := make([]domain.MemberID, 0, len(memberIDs))
	for _, m := range memberIDs {
		members = append(members, domain.MemberID(m))
	}
	return triprepo.Trip{
		ID:        domain.TripID(id),
		Name:      name,
		Organizer: domain.MemberID(organizer),
		MemberIDs: members,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}

func memberIDsToText(ids []domain.MemberID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
