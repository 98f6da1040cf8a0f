package domain

import "time"

// Customer is an organization contact whose meetings we track.
type Customer struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	Organization             string   `json:"organization"`
	TopicsOfInterest         []string `json:"topicsOfInterest"`
	InterestedInFeedback     bool     `json:"interestedInFeedback"`
	InterestedInPrivateBetas bool     `json:"interestedInPrivateBetas"`
	// DateOfLastMeeting is derived from the customer's meeting history;
	// nil when the customer has no meetings.
	DateOfLastMeeting *time.Time `json:"dateOfLastMeeting"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
