package meeting

import (
	"context"
	"errors"
	"io"
	"log"

	"customer-meetings/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const meetingColumns = `m.id::text, m.customer_id::text, m.meeting_date, m.notes_link, m.notes,
       m.created_at, m.updated_at`

// joined reads also pull the customer summary the UI shows next to each
// meeting, mirroring a populated reference.
const meetingJoinColumns = meetingColumns + `,
       c.id::text, c.name, c.email, c.organization`

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

func (r *postgresRepo) Create(ctx context.Context, m domain.Meeting) (*domain.Meeting, error) {
	const q = `
INSERT INTO meetings (customer_id, meeting_date, notes_link, notes)
VALUES ($1, $2, $3, $4)
RETURNING id::text, customer_id::text, meeting_date, notes_link, notes, created_at, updated_at
`
	return r.scanMeeting(r.pool.QueryRow(ctx, q, m.CustomerID, m.MeetingDate, m.NotesLink, m.Notes))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	const q = `
SELECT ` + meetingJoinColumns + `
FROM meetings m
JOIN customers c ON c.id = m.customer_id
WHERE m.id = $1
LIMIT 1
`
	return r.scanJoined(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Meeting, error) {
	const q = `
SELECT ` + meetingJoinColumns + `
FROM meetings m
JOIN customers c ON c.id = m.customer_id
ORDER BY m.meeting_date DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetings := []domain.Meeting{}
	for rows.Next() {
		m, err := r.scanJoined(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Meeting, error) {
	const q = `
SELECT ` + meetingColumns + `
FROM meetings m
WHERE m.customer_id = $1
ORDER BY m.meeting_date DESC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meetings := []domain.Meeting{}
	for rows.Next() {
		m, err := r.scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, *m)
	}
	return meetings, rows.Err()
}

func (r *postgresRepo) LatestByCustomer(ctx context.Context, customerID string) (*domain.Meeting, error) {
	const q = `
SELECT ` + meetingColumns + `
FROM meetings m
WHERE m.customer_id = $1
ORDER BY m.meeting_date DESC
LIMIT 1
`
	return r.scanMeeting(r.pool.QueryRow(ctx, q, customerID))
}

// Update reads the current row, applies the non-nil fields, and writes the
// merged record back.
func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Meeting, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CustomerID != nil {
		current.CustomerID = *in.CustomerID
	}
	if in.MeetingDate != nil {
		current.MeetingDate = *in.MeetingDate
	}
	if in.NotesLink != nil {
		current.NotesLink = *in.NotesLink
	}
	if in.Notes != nil {
		current.Notes = *in.Notes
	}

	const q = `
UPDATE meetings
SET customer_id = $1,
    meeting_date = $2,
    notes_link = $3,
    notes = $4,
    updated_at = now()
WHERE id = $5
RETURNING id::text, customer_id::text, meeting_date, notes_link, notes, created_at, updated_at
`
	return r.scanMeeting(r.pool.QueryRow(
		ctx,
		q,
		current.CustomerID,
		current.MeetingDate,
		current.NotesLink,
		current.Notes,
		id,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepo) scanMeeting(row pgx.Row) (*domain.Meeting, error) {
	var m domain.Meeting
	err := row.Scan(
		&m.ID,
		&m.CustomerID,
		&m.MeetingDate,
		&m.NotesLink,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("meeting repo: scan error=%v", err)
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepo) scanJoined(row pgx.Row) (*domain.Meeting, error) {
	var m domain.Meeting
	var mc domain.MeetingCustomer
	err := row.Scan(
		&m.ID,
		&m.CustomerID,
		&m.MeetingDate,
		&m.NotesLink,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
		&mc.ID,
		&mc.Name,
		&mc.Email,
		&mc.Organization,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("meeting repo: scan error=%v", err)
		return nil, err
	}
	m.Customer = &mc
	return &m, nil
}
