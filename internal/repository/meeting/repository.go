package meeting

import (
	"context"
	"time"

	"customer-meetings/internal/domain"
)

// UpdateInput carries the fields a meeting update may change. Nil fields
// are left untouched.
type UpdateInput struct {
	CustomerID  *string
	MeetingDate *time.Time
	NotesLink   *string
	Notes       *string
}

// Repository persists and fetches meetings.
type Repository interface {
	Create(ctx context.Context, m domain.Meeting) (*domain.Meeting, error)
	GetByID(ctx context.Context, id string) (*domain.Meeting, error)
	List(ctx context.Context) ([]domain.Meeting, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Meeting, error)
	// LatestByCustomer returns the customer's meeting with the maximum
	// meetingDate, or domain.ErrNotFound when the customer has none.
	LatestByCustomer(ctx context.Context, customerID string) (*domain.Meeting, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Meeting, error)
	Delete(ctx context.Context, id string) error
	// DeleteByCustomer removes every meeting referencing the customer and
	// reports how many rows went away.
	DeleteByCustomer(ctx context.Context, customerID string) (int64, error)
}
