package meeting

import (
	"context"
	"errors"
	"time"

	"customer-meetings/internal/domain"
	custrepo "customer-meetings/internal/repository/customer"
	meetrepo "customer-meetings/internal/repository/meeting"
)

var (
	// ErrCustomerNotFound is returned when a meeting references a customer
	// that does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrMissingFields is returned when a create lacks a required field.
	ErrMissingFields = errors.New("missing required fields (customer or meetingDate)")
)

// Service handles meeting CRUD and keeps each customer's dateOfLastMeeting
// in step with that customer's meeting history.
//
// Create uses a forward-only comparison against the stored value; update
// and delete re-derive from the full meeting set. A back-dated meeting
// created after a later one therefore leaves dateOfLastMeeting untouched
// until some update or delete triggers a rescan.
type Service struct {
	meetings  meetrepo.Repository
	customers custrepo.Repository
}

// New creates a Service over the given repositories.
func New(meetings meetrepo.Repository, customers custrepo.Repository) *Service {
	return &Service{meetings: meetings, customers: customers}
}

// CreateInput captures fields accepted when creating a meeting.
type CreateInput struct {
	CustomerID  string    `json:"customer"`
	MeetingDate time.Time `json:"meetingDate"`
	NotesLink   string    `json:"notesLink"`
	Notes       string    `json:"notes"`
}

// List returns all meetings, most recent first, with customer summaries.
func (s *Service) List(ctx context.Context) ([]domain.Meeting, error) {
	return s.meetings.List(ctx)
}

// Get returns one meeting by id with its customer summary.
func (s *Service) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	return s.meetings.GetByID(ctx, id)
}

// Create inserts a meeting for an existing customer and bumps the
// customer's dateOfLastMeeting when the new meeting is the latest so far.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Meeting, error) {
	if in.CustomerID == "" || in.MeetingDate.IsZero() {
		return nil, ErrMissingFields
	}

	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	created, err := s.meetings.Create(ctx, domain.Meeting{
		CustomerID:  customer.ID,
		MeetingDate: in.MeetingDate,
		NotesLink:   in.NotesLink,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, err
	}

	if customer.DateOfLastMeeting == nil || in.MeetingDate.After(*customer.DateOfLastMeeting) {
		if err := s.customers.SetLastMeetingDate(ctx, customer.ID, &created.MeetingDate); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// Update applies a partial update. A changed customer reference must point
// at an existing customer. When the meeting date changes, the customer's
// dateOfLastMeeting is re-derived: it is set to the updated date only if
// the updated meeting is that customer's most recent one.
func (s *Service) Update(ctx context.Context, id string, in meetrepo.UpdateInput) (*domain.Meeting, error) {
	if in.CustomerID != nil {
		if _, err := s.customers.GetByID(ctx, *in.CustomerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrCustomerNotFound
			}
			return nil, err
		}
	}

	updated, err := s.meetings.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	if in.MeetingDate != nil {
		latest, err := s.meetings.LatestByCustomer(ctx, updated.CustomerID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if latest != nil && latest.ID == updated.ID {
			if err := s.customers.SetLastMeetingDate(ctx, updated.CustomerID, &updated.MeetingDate); err != nil {
				return nil, err
			}
		}
	}
	return updated, nil
}

// Delete removes a meeting and re-derives the customer's
// dateOfLastMeeting from the remaining meetings, clearing it when none
// are left.
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.meetings.Delete(ctx, id); err != nil {
		return err
	}

	latest, err := s.meetings.LatestByCustomer(ctx, m.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.customers.SetLastMeetingDate(ctx, m.CustomerID, nil)
		}
		return err
	}
	return s.customers.SetLastMeetingDate(ctx, m.CustomerID, &latest.MeetingDate)
}
