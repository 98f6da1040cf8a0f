package customer

import (
	"context"
	"errors"
	"strings"

	"customer-meetings/internal/domain"
	custrepo "customer-meetings/internal/repository/customer"
	meetrepo "customer-meetings/internal/repository/meeting"
)

// ErrMissingFields is returned when a create lacks a required field.
var ErrMissingFields = errors.New("missing required fields (name, email, or organization)")

// Service handles customer CRUD, including the meeting cascade on delete.
type Service struct {
	customers custrepo.Repository
	meetings  meetrepo.Repository
}

// New creates a Service over the given repositories.
func New(customers custrepo.Repository, meetings meetrepo.Repository) *Service {
	return &Service{customers: customers, meetings: meetings}
}

// CreateInput captures fields accepted when creating a customer directly.
// dateOfLastMeeting is not accepted here: outside bulk import it is only
// ever derived from the customer's meetings.
type CreateInput struct {
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	Organization             string   `json:"organization"`
	TopicsOfInterest         []string `json:"topicsOfInterest"`
	InterestedInFeedback     bool     `json:"interestedInFeedback"`
	InterestedInPrivateBetas bool     `json:"interestedInPrivateBetas"`
}

// List returns all customers sorted by name.
func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// Create inserts a new customer. The email must not collide with an
// existing one; the store's unique index backs that up.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	organization := strings.TrimSpace(in.Organization)
	if name == "" || email == "" || organization == "" {
		return nil, ErrMissingFields
	}

	topics := in.TopicsOfInterest
	if topics == nil {
		topics = []string{}
	}

	return s.customers.Create(ctx, domain.Customer{
		Name:                     name,
		Email:                    email,
		Organization:             organization,
		TopicsOfInterest:         topics,
		InterestedInFeedback:     in.InterestedInFeedback,
		InterestedInPrivateBetas: in.InterestedInPrivateBetas,
	})
}

// Update applies a partial update to a customer.
func (s *Service) Update(ctx context.Context, id string, in custrepo.UpdateInput) (*domain.Customer, error) {
	return s.customers.Update(ctx, id, in)
}

// Delete removes a customer and every meeting that references it. The
// meetings go first so no orphaned meeting can be observed afterwards.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := s.meetings.DeleteByCustomer(ctx, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}

// Meetings lists the customer's meetings, most recent first.
func (s *Service) Meetings(ctx context.Context, id string) ([]domain.Meeting, error) {
	return s.meetings.ListByCustomer(ctx, id)
}
