package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
	"github.com/spring-sisters/spring-backend/internal/ritual"
)

const profileColumns = `user_id, name, email, reference_date, cycle_length_days,
       inventory, skin_concerns, custom_rituals, cellular_mode, push_token, updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Get loads a profile. ErrProfileNotFound when the user never saved one.
func (r *Repo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	q := `select ` + profileColumns + ` from profiles where user_id = $1;`
	p, err := scanProfile(r.db.QueryRow(ctx, q, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Mutate applies fn to the stored profile (or a default one) under a row
// lock and writes the result back in the same transaction.
func (r *Repo) Mutate(ctx context.Context, userID string, fn func(*domain.Profile) error) (*domain.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `select ` + profileColumns + ` from profiles where user_id = $1 for update;`
	p, err := scanProfile(tx.QueryRow(ctx, q, userID))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		p = domain.Default(userID)
	case err != nil:
		return nil, fmt.Errorf("lock profile: %w", err)
	}

	if err := fn(p); err != nil {
		return nil, err
	}
	p.Normalize()

	if err := upsert(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func (r *Repo) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `delete from profiles where user_id = $1;`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

// ListPushTargets returns every user with a registered push token.
func (r *Repo) ListPushTargets(ctx context.Context) ([]domain.PushTarget, error) {
	const q = `
select user_id, push_token
from profiles
where push_token is not null and push_token <> ''
order by user_id;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PushTarget, 0, 64)
	for rows.Next() {
		var t domain.PushTarget
		if err := rows.Scan(&t.UserID, &t.PushToken); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func upsert(ctx context.Context, tx pgx.Tx, p *domain.Profile) error {
	inventory, err := json.Marshal(p.Inventory)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}
	concerns, err := json.Marshal(p.SkinConcerns)
	if err != nil {
		return fmt.Errorf("marshal concerns: %w", err)
	}
	var custom *string
	if p.CustomRituals != nil {
		b, err := json.Marshal(p.CustomRituals)
		if err != nil {
			return fmt.Errorf("marshal custom rituals: %w", err)
		}
		s := string(b)
		custom = &s
	}

	const q = `
insert into profiles (user_id, name, email, reference_date, cycle_length_days,
                      inventory, skin_concerns, custom_rituals, cellular_mode, push_token, updated_at)
values ($1, $2, nullif($3,''), $4, $5, $6::jsonb, $7::jsonb, $8::jsonb, $9, nullif($10,''), now())
on conflict (user_id) do update
set
  name = excluded.name,
  email = excluded.email,
  reference_date = excluded.reference_date,
  cycle_length_days = excluded.cycle_length_days,
  inventory = excluded.inventory,
  skin_concerns = excluded.skin_concerns,
  custom_rituals = excluded.custom_rituals,
  cellular_mode = excluded.cellular_mode,
  push_token = excluded.push_token,
  updated_at = now()
returning updated_at;
`
	err = tx.QueryRow(ctx, q,
		p.UserID, p.Name, p.Email, p.ReferenceDate, p.CycleLengthDays,
		string(inventory), string(concerns), custom, p.CellularMode, p.PushToken,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		p                            domain.Profile
		email, pushToken             *string
		refDate                      *time.Time
		inventory, concerns, customs []byte
	)
	err := row.Scan(
		&p.UserID, &p.Name, &email, &refDate, &p.CycleLengthDays,
		&inventory, &concerns, &customs, &p.CellularMode, &pushToken, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if email != nil {
		p.Email = *email
	}
	if pushToken != nil {
		p.PushToken = *pushToken
	}
	p.ReferenceDate = refDate

	if err := decodeProfileJSON(&p, inventory, concerns, customs); err != nil {
		return nil, err
	}
	p.Normalize()
	return &p, nil
}

func decodeProfileJSON(p *domain.Profile, inventory, concerns, customs []byte) error {
	if len(inventory) > 0 {
		p.Inventory = map[catalog.ProductID]int{}
		if err := json.Unmarshal(inventory, &p.Inventory); err != nil {
			return fmt.Errorf("decode inventory: %w", err)
		}
	}
	if len(concerns) > 0 {
		if err := json.Unmarshal(concerns, &p.SkinConcerns); err != nil {
			return fmt.Errorf("decode concerns: %w", err)
		}
	}
	if len(customs) > 0 && string(customs) != "null" {
		var c ritual.Custom
		if err := json.Unmarshal(customs, &c); err != nil {
			return fmt.Errorf("decode custom rituals: %w", err)
		}
		p.CustomRituals = &c
	}
	return nil
}
