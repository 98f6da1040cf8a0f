package domain

import "time"

// MeetingCustomer is the customer summary embedded in meeting reads.
type MeetingCustomer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

// Meeting records a single meeting with a customer.
type Meeting struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	MeetingDate time.Time `json:"meetingDate"`
	NotesLink   string    `json:"notesLink"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Customer is populated on reads that join customer data.
	Customer *MeetingCustomer `json:"customer,omitempty"`
}
