package reportstore

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cardwatch/reporting-api/pkg/pagination"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/get-patient-reports", h.GetPatientReports)
	e.GET("/reports", h.ListReports)
}

func (h *Handler) GetPatientReports(c echo.Context) error {
	patientID := c.QueryParam("patient_id")
	if patientID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "patient_id is required"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"patient_id": patientID,
		"reports":    h.store.ListByPatient(patientID),
	})
}

func (h *Handler) ListReports(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total := h.store.ListAll(pg.Limit, pg.Offset)
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
