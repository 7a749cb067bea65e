package triprepo

import "errors"

var (
	// ErrNotFound indicates no trip exists with the given ID.
	ErrNotFound = errors.New("trip not found")

	// ErrAlreadyExists indicates a create collided with an existing trip ID.
	ErrAlreadyExists = errors.New("trip already exists")

	// ErrMemberExists indicates an AddMember for a member already on the roster.
	ErrMemberExists = errors.New("member already on trip")
)
