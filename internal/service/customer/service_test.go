package customer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"customer-meetings/internal/domain"
	custrepo "customer-meetings/internal/repository/customer"
	meetrepo "customer-meetings/internal/repository/meeting"
)

type memCustomers struct {
	items map[string]domain.Customer
	seq   int
}

func newMemCustomers() *memCustomers {
	return &memCustomers{items: make(map[string]domain.Customer)}
}

func (r *memCustomers) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	for _, existing := range r.items {
		if existing.Email == c.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("cust-%d", r.seq)
	r.items[c.ID] = c
	clone := c
	return &clone, nil
}

func (r *memCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := c
	return &clone, nil
}

func (r *memCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, c := range r.items {
		if c.Email == email {
			clone := c
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memCustomers) List(_ context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	for _, c := range r.items {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCustomers) Update(_ context.Context, id string, in custrepo.UpdateInput) (*domain.Customer, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Organization != nil {
		c.Organization = *in.Organization
	}
	r.items[id] = c
	clone := c
	return &clone, nil
}

func (r *memCustomers) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memCustomers) SetLastMeetingDate(_ context.Context, id string, at *time.Time) error {
	c, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.DateOfLastMeeting = at
	r.items[id] = c
	return nil
}

type memMeetings struct {
	items map[string]domain.Meeting
	seq   int
}

func newMemMeetings() *memMeetings {
	return &memMeetings{items: make(map[string]domain.Meeting)}
}

func (r *memMeetings) Create(_ context.Context, m domain.Meeting) (*domain.Meeting, error) {
	r.seq++
	m.ID = fmt.Sprintf("meet-%d", r.seq)
	r.items[m.ID] = m
	clone := m
	return &clone, nil
}

func (r *memMeetings) GetByID(_ context.Context, id string) (*domain.Meeting, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := m
	return &clone, nil
}

func (r *memMeetings) List(_ context.Context) ([]domain.Meeting, error) {
	out := []domain.Meeting{}
	for _, m := range r.items {
		out = append(out, m)
	}
	return out, nil
}

func (r *memMeetings) ListByCustomer(_ context.Context, customerID string) ([]domain.Meeting, error) {
	out := []domain.Meeting{}
	for _, m := range r.items {
		if m.CustomerID == customerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMeetings) LatestByCustomer(_ context.Context, customerID string) (*domain.Meeting, error) {
	var latest *domain.Meeting
	for _, m := range r.items {
		if m.CustomerID != customerID {
			continue
		}
		if latest == nil || m.MeetingDate.After(latest.MeetingDate) {
			clone := m
			latest = &clone
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func (r *memMeetings) Update(_ context.Context, id string, in meetrepo.UpdateInput) (*domain.Meeting, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.CustomerID != nil {
		m.CustomerID = *in.CustomerID
	}
	if in.MeetingDate != nil {
		m.MeetingDate = *in.MeetingDate
	}
	if in.NotesLink != nil {
		m.NotesLink = *in.NotesLink
	}
	if in.Notes != nil {
		m.Notes = *in.Notes
	}
	r.items[id] = m
	clone := m
	return &clone, nil
}

func (r *memMeetings) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memMeetings) DeleteByCustomer(_ context.Context, customerID string) (int64, error) {
	var n int64
	for id, m := range r.items {
		if m.CustomerID == customerID {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func setup() (*Service, *memCustomers, *memMeetings) {
	customers := newMemCustomers()
	meetings := newMemMeetings()
	return New(customers, meetings), customers, meetings
}

func TestCreate_RequiresAllFields(t *testing.T) {
	svc, _, _ := setup()

	cases := []CreateInput{
		{Email: "a@x.com", Organization: "O"},
		{Name: "A", Organization: "O"},
		{Name: "A", Email: "a@x.com"},
		{Name: "  ", Email: "a@x.com", Organization: "O"},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("case %d: expected ErrMissingFields, got %v", i, err)
		}
	}
}

func TestCreate_DefaultsTopicsToEmptySlice(t *testing.T) {
	svc, _, _ := setup()

	created, err := svc.Create(context.Background(), CreateInput{
		Name: "Ada", Email: "ada@x.com", Organization: "Umbrella",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.TopicsOfInterest == nil {
		t.Fatalf("topics should default to an empty slice")
	}
	if created.DateOfLastMeeting != nil {
		t.Fatalf("a new customer must have no dateOfLastMeeting, got %v", created.DateOfLastMeeting)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc, _, _ := setup()
	ctx := context.Background()

	in := CreateInput{Name: "Ada", Email: "ada@x.com", Organization: "Umbrella"}
	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDelete_CascadesMeetings(t *testing.T) {
	svc, _, meetings := setup()
	ctx := context.Background()

	cust, err := svc.Create(ctx, CreateInput{Name: "Ada", Email: "ada@x.com", Organization: "Umbrella"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other, err := svc.Create(ctx, CreateInput{Name: "Bert", Email: "bert@x.com", Organization: "Lion"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := meetings.Create(ctx, domain.Meeting{
			CustomerID:  cust.ID,
			MeetingDate: time.Date(2025, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("seed meeting: %v", err)
		}
	}
	kept, err := meetings.Create(ctx, domain.Meeting{
		CustomerID:  other.ID,
		MeetingDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed meeting: %v", err)
	}

	if err := svc.Delete(ctx, cust.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(ctx, cust.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("customer should be gone, got %v", err)
	}
	if len(meetings.items) != 1 {
		t.Fatalf("only the other customer's meeting should remain, got %d", len(meetings.items))
	}
	if _, ok := meetings.items[kept.ID]; !ok {
		t.Fatalf("unrelated meeting was deleted")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc, _, meetings := setup()

	if err := svc.Delete(context.Background(), "cust-999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(meetings.items) != 0 {
		t.Fatalf("no meetings should be touched")
	}
}

func TestMeetings_ListsOnlyThatCustomer(t *testing.T) {
	svc, _, meetings := setup()
	ctx := context.Background()

	cust, err := svc.Create(ctx, CreateInput{Name: "Ada", Email: "ada@x.com", Organization: "Umbrella"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := meetings.Create(ctx, domain.Meeting{CustomerID: cust.ID, MeetingDate: time.Now()}); err != nil {
		t.Fatalf("seed meeting: %v", err)
	}
	if _, err := meetings.Create(ctx, domain.Meeting{CustomerID: "cust-999", MeetingDate: time.Now()}); err != nil {
		t.Fatalf("seed meeting: %v", err)
	}

	got, err := svc.Meetings(ctx, cust.ID)
	if err != nil {
		t.Fatalf("meetings: %v", err)
	}
	if len(got) != 1 || got[0].CustomerID != cust.ID {
		t.Fatalf("unexpected meetings %+v", got)
	}
}
