package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/activity-board/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS activities (
	id               BIGSERIAL PRIMARY KEY,
	name             TEXT NOT NULL UNIQUE,
	description      TEXT NOT NULL DEFAULT '',
	schedule         TEXT NOT NULL DEFAULT '',
	max_participants INT  NOT NULL CHECK (max_participants >= 0),
	position         INT  NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS participants (
	id          BIGSERIAL PRIMARY KEY,
	activity_id BIGINT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
	email       TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (activity_id, email)
);

CREATE TABLE IF NOT EXISTS roster_events (
	id          BIGSERIAL PRIMARY KEY,
	activity_id BIGINT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
	email       TEXT NOT NULL,
	action      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresActivityRepository stores activities with pgx.
type PostgresActivityRepository struct {
	db *pgxpool.Pool
}

func NewPostgresActivityRepository(db *pgxpool.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// Migrate creates the tables when they do not exist.
func (r *PostgresActivityRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate activities schema: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) List(ctx context.Context) ([]models.Activity, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, schedule, max_participants, position
		 FROM activities
		 ORDER BY position, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	index := map[uint]int{}
	for rows.Next() {
		var a models.Activity
		var id int64
		if err := rows.Scan(&id, &a.Name, &a.Description, &a.Schedule, &a.MaxParticipants, &a.Position); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ID = uint(id)
		index[a.ID] = len(activities)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	prows, err := r.db.Query(ctx,
		`SELECT activity_id, email FROM participants ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var activityID int64
		var email string
		if err := prows.Scan(&activityID, &email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if i, ok := index[uint(activityID)]; ok {
			activities[i].Participants = append(activities[i].Participants,
				models.Participant{ActivityID: uint(activityID), Email: email})
		}
	}
	return activities, prows.Err()
}

// Signup locks the activity row for the duration of the transaction so two
// concurrent signups cannot both take the last spot.
func (r *PostgresActivityRepository) Signup(ctx context.Context, activity, email string) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var activityID int64
	var capacity int
	err = tx.QueryRow(ctx,
		`SELECT id, max_participants FROM activities WHERE name = $1 FOR UPDATE`,
		activity,
	).Scan(&activityID, &capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("lock activity row: %w", err)
	}

	var signedUp bool
	var enrolled int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(bool_or(email = $2), false), COUNT(*)
		 FROM participants WHERE activity_id = $1`,
		activityID, email,
	).Scan(&signedUp, &enrolled)
	if err != nil {
		return fmt.Errorf("check roster: %w", err)
	}
	if signedUp {
		return ErrAlreadySignedUp
	}
	if enrolled >= capacity {
		return ErrActivityFull
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO participants (activity_id, email) VALUES ($1, $2)`,
		activityID, email,
	)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	if err = insertEvent(ctx, tx, activityID, email, models.RosterSignup); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) Unregister(ctx context.Context, activity, email string) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var activityID int64
	err = tx.QueryRow(ctx, `SELECT id FROM activities WHERE name = $1`, activity).Scan(&activityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("find activity: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM participants WHERE activity_id = $1 AND email = $2`,
		activityID, email,
	)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotSignedUp
	}
	if err = insertEvent(ctx, tx, activityID, email, models.RosterUnregister); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) History(ctx context.Context, activity string) ([]models.RosterEvent, error) {
	var activityID int64
	err := r.db.QueryRow(ctx, `SELECT id FROM activities WHERE name = $1`, activity).Scan(&activityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, email, action, created_at FROM roster_events
		 WHERE activity_id = $1 ORDER BY id`,
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list roster events: %w", err)
	}
	defer rows.Close()

	var events []models.RosterEvent
	for rows.Next() {
		var id int64
		var action string
		e := models.RosterEvent{ActivityID: uint(activityID)}
		if err := rows.Scan(&id, &e.Email, &action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan roster event: %w", err)
		}
		e.ID = uint(id)
		e.Action = models.RosterAction(action)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PostgresActivityRepository) Seed(ctx context.Context, activities []models.Activity) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var count int
	if err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return fmt.Errorf("count activities: %w", err)
	}
	if count > 0 {
		return tx.Rollback(ctx)
	}

	for _, a := range activities {
		var id int64
		err = tx.QueryRow(ctx,
			`INSERT INTO activities (name, description, schedule, max_participants, position)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			a.Name, a.Description, a.Schedule, a.MaxParticipants, a.Position,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		for _, p := range a.Participants {
			if _, err = tx.Exec(ctx,
				`INSERT INTO participants (activity_id, email) VALUES ($1, $2)`,
				id, p.Email,
			); err != nil {
				return fmt.Errorf("seed participant %q: %w", p.Email, err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func insertEvent(ctx context.Context, tx pgx.Tx, activityID int64, email string, action models.RosterAction) error {
	if _, err := tx.Exec(ctx,
		`INSERT INTO roster_events (activity_id, email, action) VALUES ($1, $2, $3)`,
		activityID, email, string(action),
	); err != nil {
		return fmt.Errorf("record roster event: %w", err)
	}
	return nil
}

var (
	_ ActivityRepository = (*GormActivityRepository)(nil)
	_ ActivityRepository = (*PostgresActivityRepository)(nil)
)
