package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type customerSeed struct {
	Name         string
	Email        string
	Organization string
	Topics       []string
	Feedback     bool
	PrivateBetas bool
}

type meetingSeed struct {
	CustomerEmail string
	MeetingDate   time.Time
	NotesLink     string
	Notes         string
}

// Apply inserts basic seed data for manual testing. It is idempotent via
// ON CONFLICT, and recomputes each seeded customer's date_of_last_meeting
// from the meetings it inserted.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	customers := []customerSeed{
		{
			Name:         "Ada Wong",
			Email:        "ada@umbrella.example",
			Organization: "Umbrella Corp",
			Topics:       []string{"api design", "private betas"},
			Feedback:     true,
			PrivateBetas: true,
		},
		{
			Name:         "Bert Lahr",
			Email:        "bert@cowardly.example",
			Organization: "Cowardly Lion LLC",
			Topics:       []string{"onboarding"},
		},
		{
			Name:         "Cleo Patra",
			Email:        "cleo@nile.example",
			Organization: "Nile Shipping",
		},
	}

	for _, c := range customers {
		if err := upsertCustomer(ctx, pool, c); err != nil {
			return fmt.Errorf("upsert customer %s: %w", c.Email, err)
		}
	}

	meetings := []meetingSeed{
		{CustomerEmail: "ada@umbrella.example", MeetingDate: date(2025, 3, 1), Notes: "kickoff"},
		{CustomerEmail: "ada@umbrella.example", MeetingDate: date(2025, 4, 1), NotesLink: "https://notes.example/ada-q2"},
		{CustomerEmail: "bert@cowardly.example", MeetingDate: date(2025, 2, 14), Notes: "renewal discussion"},
	}

	for _, m := range meetings {
		if err := insertMeeting(ctx, pool, m); err != nil {
			return fmt.Errorf("insert meeting for %s: %w", m.CustomerEmail, err)
		}
	}

	return syncLastMeetingDates(ctx, pool)
}

func upsertCustomer(ctx context.Context, pool *pgxpool.Pool, c customerSeed) error {
	const q = `
INSERT INTO customers (name, email, organization, topics_of_interest, interested_in_feedback, interested_in_private_betas)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name,
    organization = EXCLUDED.organization,
    topics_of_interest = EXCLUDED.topics_of_interest,
    interested_in_feedback = EXCLUDED.interested_in_feedback,
    interested_in_private_betas = EXCLUDED.interested_in_private_betas
`
	topics := c.Topics
	if topics == nil {
		topics = []string{}
	}
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, q, c.Name, c.Email, c.Organization, topicsJSON, c.Feedback, c.PrivateBetas)
	return err
}

func insertMeeting(ctx context.Context, pool *pgxpool.Pool, m meetingSeed) error {
	const q = `
INSERT INTO meetings (customer_id, meeting_date, notes_link, notes)
SELECT id, $2, $3, $4
FROM customers
WHERE email = $1
  AND NOT EXISTS (
      SELECT 1 FROM meetings mm
      JOIN customers cc ON cc.id = mm.customer_id
      WHERE cc.email = $1 AND mm.meeting_date = $2
  )
`
	_, err := pool.Exec(ctx, q, m.CustomerEmail, m.MeetingDate, m.NotesLink, m.Notes)
	return err
}

func syncLastMeetingDates(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
UPDATE customers c
SET date_of_last_meeting = agg.latest
FROM (SELECT customer_id, max(meeting_date) AS latest FROM meetings GROUP BY customer_id) agg
WHERE agg.customer_id = c.id
`
	_, err := pool.Exec(ctx, q)
	return err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
