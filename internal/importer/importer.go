package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"customer-meetings/internal/domain"
	"github.com/google/uuid"
)

// CustomerStore is the slice of the customer repository the importer needs.
type CustomerStore interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	SetLastMeetingDate(ctx context.Context, id string, at *time.Time) error
}

// MeetingStore is the slice of the meeting repository the importer needs.
type MeetingStore interface {
	Create(ctx context.Context, m domain.Meeting) (*domain.Meeting, error)
}

// RowError describes why one record of a batch was rejected. JSON-sourced
// failures are keyed by 1-based row position; CSV-sourced failures carry
// the identifying fields of the row instead.
type RowError struct {
	Row           int    `json:"row,omitempty"`
	Email         string `json:"email,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerID    string `json:"customerId,omitempty"`
	Message       string `json:"error"`
}

// CustomerSummary is the outcome of one customer import batch.
type CustomerSummary struct {
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
	Results      []domain.Customer `json:"results"`
	Errors       []RowError        `json:"errors"`
}

// MeetingSummary is the outcome of one meeting import batch.
type MeetingSummary struct {
	SuccessCount int              `json:"successCount"`
	ErrorCount   int              `json:"errorCount"`
	Results      []domain.Meeting `json:"results"`
	Errors       []RowError       `json:"errors"`
}

// Importer ingests decoded upload records into the store. Records are
// processed strictly in input order, one at a time; a failed record never
// aborts the rest of the batch.
//
// Nothing serializes two concurrent imports against each other. Two
// racing batches can both pass the duplicate check for the same email;
// the unique index on customers.email makes the slower insert lose with
// a per-row error rather than a second customer.
type Importer struct {
	customers CustomerStore
	meetings  MeetingStore
	logger    *log.Logger
}

// New builds an Importer over the given stores.
func New(customers CustomerStore, meetings MeetingStore, logger *log.Logger) *Importer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Importer{customers: customers, meetings: meetings, logger: logger}
}

// ImportCustomers runs the per-record customer pipeline: normalize, reject
// email collisions, insert. Existing customers are never updated.
func (i *Importer) ImportCustomers(ctx context.Context, records []Record, src Source) *CustomerSummary {
	summary := &CustomerSummary{
		Results: []domain.Customer{},
		Errors:  []RowError{},
	}

	for idx, rec := range records {
		fail := func(msg string) {
			summary.Errors = append(summary.Errors, customerRowError(idx, rec, src, msg))
		}

		in, err := normalizeCustomer(rec, src)
		if err != nil {
			fail(err.Error())
			continue
		}

		existing, err := i.customers.GetByEmail(ctx, in.Email)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			i.logger.Printf("import customers: lookup email=%s err=%v", in.Email, err)
			fail(err.Error())
			continue
		}
		if existing != nil {
			fail(fmt.Sprintf("customer with email %s already exists", in.Email))
			continue
		}

		created, err := i.customers.Create(ctx, domain.Customer{
			Name:                     in.Name,
			Email:                    in.Email,
			Organization:             in.Organization,
			TopicsOfInterest:         in.TopicsOfInterest,
			InterestedInFeedback:     in.InterestedInFeedback,
			InterestedInPrivateBetas: in.InterestedInPrivateBetas,
			DateOfLastMeeting:        in.DateOfLastMeeting,
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				fail(fmt.Sprintf("customer with email %s already exists", in.Email))
				continue
			}
			i.logger.Printf("import customers: insert email=%s err=%v", in.Email, err)
			fail(err.Error())
			continue
		}

		summary.SuccessCount++
		summary.Results = append(summary.Results, *created)
	}

	summary.ErrorCount = len(summary.Errors)
	return summary
}

// ImportMeetings runs the per-record meeting pipeline: normalize, resolve
// the referenced customer (id wins over email), insert, then bump the
// customer's dateOfLastMeeting when the new meeting is later than the
// currently stored value. The bump is a forward-only comparison: each
// iteration writes before the next one reads, so within a batch the
// stored value always reflects all previously imported meetings.
func (i *Importer) ImportMeetings(ctx context.Context, records []Record, src Source) *MeetingSummary {
	summary := &MeetingSummary{
		Results: []domain.Meeting{},
		Errors:  []RowError{},
	}

	for idx, rec := range records {
		fail := func(msg string) {
			summary.Errors = append(summary.Errors, meetingRowError(idx, rec, src, msg))
		}

		in, err := normalizeMeeting(rec)
		if err != nil {
			fail(err.Error())
			continue
		}

		customer, err := i.resolveCustomer(ctx, in)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				i.logger.Printf("import meetings: resolve customer err=%v", err)
				fail(err.Error())
				continue
			}
			fail(fmt.Sprintf("customer not found for email: %s or id: %s",
				orNA(in.CustomerEmail), orNA(in.CustomerID)))
			continue
		}

		created, err := i.meetings.Create(ctx, domain.Meeting{
			CustomerID:  customer.ID,
			MeetingDate: in.MeetingDate,
			NotesLink:   in.NotesLink,
			Notes:       in.Notes,
		})
		if err != nil {
			i.logger.Printf("import meetings: insert customer=%s err=%v", customer.ID, err)
			fail(err.Error())
			continue
		}

		if customer.DateOfLastMeeting == nil || in.MeetingDate.After(*customer.DateOfLastMeeting) {
			if err := i.customers.SetLastMeetingDate(ctx, customer.ID, &in.MeetingDate); err != nil {
				i.logger.Printf("import meetings: bump last meeting customer=%s err=%v", customer.ID, err)
				fail(err.Error())
				continue
			}
		}

		summary.SuccessCount++
		summary.Results = append(summary.Results, *created)
	}

	summary.ErrorCount = len(summary.Errors)
	return summary
}

func (i *Importer) resolveCustomer(ctx context.Context, in meetingInput) (*domain.Customer, error) {
	if in.CustomerID != "" {
		if _, err := uuid.Parse(in.CustomerID); err != nil {
			return nil, domain.ErrNotFound
		}
		return i.customers.GetByID(ctx, in.CustomerID)
	}
	return i.customers.GetByEmail(ctx, in.CustomerEmail)
}

func customerRowError(idx int, rec Record, src Source, msg string) RowError {
	if src == SourceCSV {
		return RowError{Email: stringField(rec, "email"), Message: msg}
	}
	return RowError{Row: idx + 1, Message: msg}
}

func meetingRowError(idx int, rec Record, src Source, msg string) RowError {
	if src == SourceCSV {
		return RowError{
			CustomerEmail: orNA(stringField(rec, "customerEmail")),
			CustomerID:    orNA(stringField(rec, "customerId")),
			Message:       msg,
		}
	}
	return RowError{Row: idx + 1, Message: msg}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
