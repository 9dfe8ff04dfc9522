package streak

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Repository stores streaks in the login_streaks table.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns a zero streak when the user has none yet.
func (r *Repository) Get(ctx context.Context, userID string) (Streak, error) {
	const q = `
SELECT current_count, longest_count, last_date
FROM login_streaks
WHERE user_id = $1;
`
	s := Streak{UserID: userID}
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&s.Current, &s.Longest, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return Streak{}, err
	}
	if last.Valid {
		d := dateOf(last.Time)
		s.LastDate = &d
	}
	return s, nil
}

// Update loads the streak under a row lock, applies fn and writes the result
// back when fn reports a change.
func (r *Repository) Update(ctx context.Context, userID string, fn func(Streak) (Streak, bool)) (Streak, error) {
	for attempt := 0; attempt < 2; attempt++ {
		s, err := r.update(ctx, userID, fn)
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			// first visit raced with another request; the row exists now
			continue
		}
		return s, err
	}
	return Streak{}, fmt.Errorf("failed to update streak for %s", userID)
}

func (r *Repository) update(ctx context.Context, userID string, fn func(Streak) (Streak, bool)) (Streak, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Streak{}, err
	}
	defer func() { _ = tx.Rollback() }()

	s := Streak{UserID: userID}
	var last sql.NullTime
	exists := true
	err = tx.QueryRowContext(ctx, `
SELECT current_count, longest_count, last_date
FROM login_streaks
WHERE user_id = $1
FOR UPDATE;
`, userID).Scan(&s.Current, &s.Longest, &last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		exists = false
	case err != nil:
		return Streak{}, err
	}
	if last.Valid {
		d := dateOf(last.Time)
		s.LastDate = &d
	}

	next, changed := fn(s)
	if !changed {
		return s, tx.Commit()
	}

	if exists {
		_, err = tx.ExecContext(ctx, `
UPDATE login_streaks
SET current_count = $2, longest_count = $3, last_date = $4, updated_at = now()
WHERE user_id = $1;
`, userID, next.Current, next.Longest, *next.LastDate)
	} else {
		_, err = tx.ExecContext(ctx, `
INSERT INTO login_streaks (user_id, current_count, longest_count, last_date)
VALUES ($1, $2, $3, $4);
`, userID, next.Current, next.Longest, *next.LastDate)
	}
	if err != nil {
		return Streak{}, err
	}
	return next, tx.Commit()
}

func (r *Repository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM login_streaks WHERE user_id = $1;`, userID)
	return err
}
