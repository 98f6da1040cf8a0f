package customer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"customer-meetings/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerColumns = `id::text, name, email, organization, topics_of_interest,
       interested_in_feedback, interested_in_private_betas, date_of_last_meeting,
       created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	topicsJSON, err := json.Marshal(topicsOrEmpty(c.TopicsOfInterest))
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO customers (
    name, email, organization, topics_of_interest,
    interested_in_feedback, interested_in_private_betas, date_of_last_meeting
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(
		ctx,
		q,
		c.Name,
		c.Email,
		c.Organization,
		topicsJSON,
		c.InterestedInFeedback,
		c.InterestedInPrivateBetas,
		c.DateOfLastMeeting,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE id = $1
LIMIT 1
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
WHERE email = $1
LIMIT 1
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Customer, error) {
	const q = `
SELECT ` + customerColumns + `
FROM customers
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// Update reads the current row, applies the non-nil fields, and writes the
// merged record back. A single request mutates one customer at a time, so
// the read-modify-write is not guarded further.
func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Customer, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		current.Name = *in.Name
	}
	if in.Email != nil {
		current.Email = *in.Email
	}
	if in.Organization != nil {
		current.Organization = *in.Organization
	}
	if in.TopicsOfInterest != nil {
		current.TopicsOfInterest = *in.TopicsOfInterest
	}
	if in.InterestedInFeedback != nil {
		current.InterestedInFeedback = *in.InterestedInFeedback
	}
	if in.InterestedInPrivateBetas != nil {
		current.InterestedInPrivateBetas = *in.InterestedInPrivateBetas
	}

	topicsJSON, err := json.Marshal(topicsOrEmpty(current.TopicsOfInterest))
	if err != nil {
		return nil, err
	}

	const q = `
UPDATE customers
SET name = $1,
    email = $2,
    organization = $3,
    topics_of_interest = $4,
    interested_in_feedback = $5,
    interested_in_private_betas = $6,
    updated_at = now()
WHERE id = $7
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(
		ctx,
		q,
		current.Name,
		current.Email,
		current.Organization,
		topicsJSON,
		current.InterestedInFeedback,
		current.InterestedInPrivateBetas,
		id,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetLastMeetingDate(ctx context.Context, id string, at *time.Time) error {
	const q = `
UPDATE customers
SET date_of_last_meeting = $1,
    updated_at = now()
WHERE id = $2
`
	tag, err := r.pool.Exec(ctx, q, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var topicsJSON []byte
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Organization,
		&topicsJSON,
		&c.InterestedInFeedback,
		&c.InterestedInPrivateBetas,
		&c.DateOfLastMeeting,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("customer repo: scan error=%v", err)
		return nil, err
	}
	c.TopicsOfInterest = []string{}
	if len(topicsJSON) > 0 {
		if err := json.Unmarshal(topicsJSON, &c.TopicsOfInterest); err != nil {
			r.logger.Printf("customer repo: decode topics id=%s err=%v", c.ID, err)
			return nil, err
		}
	}
	return &c, nil
}

func topicsOrEmpty(topics []string) []string {
	if topics == nil {
		return []string{}
	}
	return topics
}
