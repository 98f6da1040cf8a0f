package importer

import (
	"errors"
	"fmt"
	"time"
)

type customerInput struct {
	Name                     string
	Email                    string
	Organization             string
	TopicsOfInterest         []string
	InterestedInFeedback     bool
	InterestedInPrivateBetas bool
	// DateOfLastMeeting is seeded straight from the upload when present.
	// Bulk import does not check that a meeting backs it up.
	DateOfLastMeeting *time.Time
}

type meetingInput struct {
	CustomerEmail string
	CustomerID    string
	MeetingDate   time.Time
	NotesLink     string
	Notes         string
}

var (
	errCustomerFields     = errors.New("missing required fields (name, email, or organization)")
	errMeetingCustomerRef = errors.New("meeting must have either customerEmail or customerId")
	errMeetingDate        = errors.New("meeting must have a meetingDate")
)

// normalizeCustomer turns one raw record into a typed customer input, or
// reports why the record is unusable.
func normalizeCustomer(rec Record, src Source) (customerInput, error) {
	in := customerInput{
		Name:                     stringField(rec, "name"),
		Email:                    stringField(rec, "email"),
		Organization:             stringField(rec, "organization"),
		TopicsOfInterest:         listField(rec, "topicsOfInterest"),
		InterestedInFeedback:     boolField(rec, "interestedInFeedback", src),
		InterestedInPrivateBetas: boolField(rec, "interestedInPrivateBetas", src),
	}
	if in.Name == "" || in.Email == "" || in.Organization == "" {
		return customerInput{}, errCustomerFields
	}

	if raw := stringField(rec, "dateOfLastMeeting"); raw != "" {
		t, err := ParseDate(raw)
		if err != nil {
			return customerInput{}, fmt.Errorf("invalid dateOfLastMeeting: %w", err)
		}
		in.DateOfLastMeeting = &t
	}
	return in, nil
}

// normalizeMeeting turns one raw record into a typed meeting input. The
// customer reference may be either an email or an id; resolution happens
// later against the store.
func normalizeMeeting(rec Record) (meetingInput, error) {
	in := meetingInput{
		CustomerEmail: stringField(rec, "customerEmail"),
		CustomerID:    stringField(rec, "customerId"),
		NotesLink:     stringField(rec, "notesLink"),
		Notes:         stringField(rec, "notes"),
	}
	if in.CustomerEmail == "" && in.CustomerID == "" {
		return meetingInput{}, errMeetingCustomerRef
	}

	raw := stringField(rec, "meetingDate")
	if raw == "" {
		return meetingInput{}, errMeetingDate
	}
	t, err := ParseDate(raw)
	if err != nil {
		return meetingInput{}, fmt.Errorf("invalid meetingDate: %w", err)
	}
	in.MeetingDate = t
	return in, nil
}
