package httpserver

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCreateMeeting_BumpsCustomerDate(t *testing.T) {
	env := newTestEnv(t)
	cust := env.seedCustomer(t, "Ada", "ada@x.com", "Umbrella")

	payload := `{"customer":"` + cust.ID + `","meetingDate":"2025-03-01","notesLink":"https://notes/x"}`
	w := env.do(t, http.MethodPost, "/api/meetings", strings.NewReader(payload), "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["customerId"] != cust.ID {
		t.Fatalf("unexpected body %+v", body)
	}

	reloaded, err := env.customers.GetByID(context.Background(), cust.ID)
	if err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if reloaded.DateOfLastMeeting == nil {
		t.Fatalf("creating a meeting should set dateOfLastMeeting")
	}
}

func TestCreateMeeting_UnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"customer":"` + uuid.NewString() + `","meetingDate":"2025-03-01"}`
	w := env.do(t, http.MethodPost, "/api/meetings", strings.NewReader(payload), "application/json")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Customer not found" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestCreateMeeting_BadDate(t *testing.T) {
	env := newTestEnv(t)
	cust := env.seedCustomer(t, "Ada", "ada@x.com", "Umbrella")

	payload := `{"customer":"` + cust.ID + `","meetingDate":"next tuesday"}`
	w := env.do(t, http.MethodPost, "/api/meetings", strings.NewReader(payload), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if msg, _ := body["message"].(string); !strings.Contains(msg, "meetingDate") {
		t.Fatalf("unexpected message %+v", body)
	}
}

func TestDeleteMeeting_RederivesCustomerDate(t *testing.T) {
	env := newTestEnv(t)
	cust := env.seedCustomer(t, "Ada", "ada@x.com", "Umbrella")

	var meetingIDs []string
	for _, date := range []string{"2025-03-01", "2025-04-01"} {
		payload := `{"customer":"` + cust.ID + `","meetingDate":"` + date + `"}`
		w := env.do(t, http.MethodPost, "/api/meetings", strings.NewReader(payload), "application/json")
		if w.Code != http.StatusCreated {
			t.Fatalf("seed meeting: %d: %s", w.Code, w.Body.String())
		}
		meetingIDs = append(meetingIDs, decodeBody(t, w)["id"].(string))
	}

	w := env.do(t, http.MethodDelete, "/api/meetings/"+meetingIDs[1], nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "Meeting deleted successfully" {
		t.Fatalf("unexpected message %+v", body)
	}

	reloaded, err := env.customers.GetByID(context.Background(), cust.ID)
	if err != nil {
		t.Fatalf("reload customer: %v", err)
	}
	if reloaded.DateOfLastMeeting == nil || reloaded.DateOfLastMeeting.Month() != 3 {
		t.Fatalf("dateOfLastMeeting should fall back to the remaining meeting, got %v", reloaded.DateOfLastMeeting)
	}
}

func TestDeleteMeeting_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodDelete, "/api/meetings/"+uuid.NewString(), nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpdateMeeting_UnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	cust := env.seedCustomer(t, "Ada", "ada@x.com", "Umbrella")

	payload := `{"customer":"` + cust.ID + `","meetingDate":"2025-03-01"}`
	w := env.do(t, http.MethodPost, "/api/meetings", strings.NewReader(payload), "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("seed meeting: %d: %s", w.Code, w.Body.String())
	}
	id := decodeBody(t, w)["id"].(string)

	update := `{"customer":"` + uuid.NewString() + `"}`
	w = env.do(t, http.MethodPut, "/api/meetings/"+id, strings.NewReader(update), "application/json")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
