package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"customer-meetings/internal/domain"
	custrepo "customer-meetings/internal/repository/customer"
	customersvc "customer-meetings/internal/service/customer"
)

type updateCustomerRequest struct {
	Name                     *string   `json:"name"`
	Email                    *string   `json:"email"`
	Organization             *string   `json:"organization"`
	TopicsOfInterest         *[]string `json:"topicsOfInterest"`
	InterestedInFeedback     *bool     `json:"interestedInFeedback"`
	InterestedInPrivateBetas *bool     `json:"interestedInPrivateBetas"`
}

func listCustomers(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, customers)
	}
}

func getCustomer(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := customerID(c)
		if !ok {
			return
		}
		customer, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, customer)
	}
}

func customerMeetings(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := customerID(c)
		if !ok {
			return
		}
		meetings, err := svc.Meetings(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, meetings)
	}
}

func createCustomer(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		created, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "customer with email " + in.Email + " already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateCustomer(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := customerID(c)
		if !ok {
			return
		}
		var req updateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		updated, err := svc.Update(c.Request.Context(), id, custrepo.UpdateInput{
			Name:                     req.Name,
			Email:                    req.Email,
			Organization:             req.Organization,
			TopicsOfInterest:         req.TopicsOfInterest,
			InterestedInFeedback:     req.InterestedInFeedback,
			InterestedInPrivateBetas: req.InterestedInPrivateBetas,
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
				return
			}
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "customer email already in use"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteCustomer(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := customerID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer and associated meetings deleted successfully"})
	}
}

// customerID validates the path id. An id that cannot be a stored key is
// reported the same way as an absent one.
func customerID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		return "", false
	}
	return id, true
}
