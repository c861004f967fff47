package reportstore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestGetPatientReports(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(meta("1", "a.pdf", "20250301_120000")); err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	NewHandler(s).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/get-patient-reports?patient_id=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		PatientID string     `json:"patient_id"`
		Reports   []Metadata `json:"reports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.PatientID != "1" || len(body.Reports) != 1 {
		t.Errorf("body = %+v", body)
	}
}

func TestGetPatientReportsMissingID(t *testing.T) {
	e := echo.New()
	NewHandler(newTestStore(t)).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/get-patient-reports", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListReports(t *testing.T) {
	s := newTestStore(t)
	for _, m := range []Metadata{
		meta("1", "a.pdf", "20250101_080000"),
		meta("2", "b.pdf", "20250201_080000"),
	} {
		if err := s.Append(m); err != nil {
			t.Fatal(err)
		}
	}

	e := echo.New()
	NewHandler(s).RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/reports?limit=1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data    []Metadata `json:"data"`
		Total   int        `json:"total"`
		HasMore bool       `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Total != 2 || len(body.Data) != 1 || !body.HasMore {
		t.Errorf("body = %+v", body)
	}
}
