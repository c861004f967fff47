package patient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*echo.Echo, *Handler) {
	e := echo.New()
	h := NewHandler(newTestService())
	h.RegisterRoutes(e)
	return e, h
}

func TestListClients(t *testing.T) {
	e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].FirstName != "Mary" {
		t.Errorf("first patient = %q, want Mary", got[0].FirstName)
	}
}

func TestListClientsFullRoster(t *testing.T) {
	// a parameterless request must return every patient, not a default page
	repo := &mockRepo{patients: map[int64]*Patient{}}
	for i := int64(1); i <= 60; i++ {
		repo.patients[i] = &Patient{ID: i, FirstName: "Resident", LastName: fmt.Sprintf("%d", i)}
	}
	e := echo.New()
	NewHandler(NewService(repo, &mockAllergyRepo{})).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 60 {
		t.Fatalf("len = %d, want the full roster of 60", len(got))
	}

	// explicit paging still works
	req = httptest.NewRequest(http.MethodGet, "/clients?limit=10&offset=55", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 5 || got[0].ID != 56 {
		t.Errorf("page = %d records starting at %d, want 5 starting at 56", len(got), got[0].ID)
	}
}

func TestListClientsError(t *testing.T) {
	e := echo.New()
	svc := NewService(&mockRepo{failList: true}, &mockAllergyRepo{})
	NewHandler(svc).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] == "" || body["details"] == "" {
		t.Errorf("error body = %v, want error and details keys", body)
	}
}

func TestGetClient(t *testing.T) {
	e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/clients/1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.LastName != "Johnson" {
		t.Errorf("last name = %q, want Johnson", got.LastName)
	}
}

func TestGetClientNotFound(t *testing.T) {
	e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/clients/99", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetClientBadID(t *testing.T) {
	e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/clients/abc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListAllergies(t *testing.T) {
	e, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/clients/2/allergies", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "[]\n" {
		t.Errorf("body = %q, want empty array", rec.Body.String())
	}
}
