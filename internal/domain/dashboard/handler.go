package dashboard

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/dashboard-data", h.GetDashboardData)
}

func (h *Handler) GetDashboardData(c echo.Context) error {
	rawID := c.QueryParam("patient_id")
	if rawID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "patient_id is required"})
	}
	patientID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "patient_id must be numeric"})
	}

	includeAnalysis := strings.EqualFold(c.QueryParam("include_analysis"), "true")

	payload, err := h.svc.Build(
		c.Request().Context(),
		patientID,
		c.QueryParam("start_date"),
		c.QueryParam("end_date"),
		includeAnalysis,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to build dashboard data",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, payload)
}
