package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"customer-meetings/internal/domain"
	"customer-meetings/internal/importer"
	meetrepo "customer-meetings/internal/repository/meeting"
	meetingsvc "customer-meetings/internal/service/meeting"
)

// Dates arrive as strings so the API accepts the same loose formats as
// bulk upload, not just RFC 3339.
type createMeetingRequest struct {
	Customer    string `json:"customer"`
	MeetingDate string `json:"meetingDate"`
	NotesLink   string `json:"notesLink"`
	Notes       string `json:"notes"`
}

type updateMeetingRequest struct {
	Customer    *string `json:"customer"`
	MeetingDate *string `json:"meetingDate"`
	NotesLink   *string `json:"notesLink"`
	Notes       *string `json:"notes"`
}

func listMeetings(svc *meetingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		meetings, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, meetings)
	}
}

func getMeeting(svc *meetingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingID(c)
		if !ok {
			return
		}
		meeting, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Meeting not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, meeting)
	}
}

func createMeeting(svc *meetingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createMeetingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		if _, err := uuid.Parse(req.Customer); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		date, err := parseDateField(req.MeetingDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		created, err := svc.Create(c.Request.Context(), meetingsvc.CreateInput{
			CustomerID:  req.Customer,
			MeetingDate: date,
			NotesLink:   req.NotesLink,
			Notes:       req.Notes,
		})
		if err != nil {
			if errors.Is(err, meetingsvc.ErrCustomerNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateMeeting(svc *meetingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingID(c)
		if !ok {
			return
		}
		var req updateMeetingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		in := meetrepo.UpdateInput{
			CustomerID: req.Customer,
			NotesLink:  req.NotesLink,
			Notes:      req.Notes,
		}
		if req.Customer != nil {
			if _, err := uuid.Parse(*req.Customer); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
				return
			}
		}
		if req.MeetingDate != nil {
			date, err := parseDateField(*req.MeetingDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			in.MeetingDate = &date
		}

		updated, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			if errors.Is(err, meetingsvc.ErrCustomerNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
				return
			}
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Meeting not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteMeeting(svc *meetingsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := meetingID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Meeting not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Meeting deleted successfully"})
	}
}

func meetingID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Meeting not found"})
		return "", false
	}
	return id, true
}

func parseDateField(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("meetingDate is required")
	}
	t, err := importer.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.New("invalid meetingDate: " + err.Error())
	}
	return t, nil
}
