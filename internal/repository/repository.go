// Package repository persists activities and their rosters for the
// activities API. Two backends implement ActivityRepository: gorm over sqlite
// and pgx over PostgreSQL.
package repository

import (
	"context"
	"errors"

	"github.com/gdg-garage/activity-board/internal/models"
)

var (
	// ErrActivityNotFound is returned when no activity has the given name.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrAlreadySignedUp is returned when the email is already on the roster.
	ErrAlreadySignedUp = errors.New("student already signed up for this activity")

	// ErrNotSignedUp is returned when removing an email that is not on the roster.
	ErrNotSignedUp = errors.New("student is not signed up for this activity")

	// ErrActivityFull is returned when the roster has reached max_participants.
	ErrActivityFull = errors.New("activity is full")
)

// ActivityRepository is the store behind the activities API.
type ActivityRepository interface {
	// List returns every activity in display order with its roster in
	// signup order.
	List(ctx context.Context) ([]models.Activity, error)
	Signup(ctx context.Context, activity, email string) error
	Unregister(ctx context.Context, activity, email string) error
	// History returns the roster changes of one activity, oldest first.
	History(ctx context.Context, activity string) ([]models.RosterEvent, error)
	// Seed inserts activities only when the store holds none.
	Seed(ctx context.Context, activities []models.Activity) error
}
