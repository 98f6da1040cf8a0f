package customer

import (
	"context"
	"time"

	"customer-meetings/internal/domain"
)

// UpdateInput carries the fields a customer update may change. Nil fields
// are left untouched. dateOfLastMeeting is deliberately absent: it is
// derived from meetings and only written through SetLastMeetingDate.
type UpdateInput struct {
	Name                     *string
	Email                    *string
	Organization             *string
	TopicsOfInterest         *[]string
	InterestedInFeedback     *bool
	InterestedInPrivateBetas *bool
}

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	SetLastMeetingDate(ctx context.Context, id string, at *time.Time) error
}
