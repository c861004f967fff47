package report

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
	e.GET("/generate-report", h.GenerateReport)
	e.GET("/embedded-report-html", h.EmbeddedReportHTML)
}

func (h *Handler) GenerateReport(c echo.Context) error {
	patientID, ok := patientIDParam(c)
	if !ok {
		return nil
	}

	res, err := h.svc.Generate(
		c.Request().Context(),
		patientID,
		c.QueryParam("start_date"),
		c.QueryParam("end_date"),
		ParseSections(c.QueryParam("sections")),
		includeAIParam(c),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to generate report",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, res)
}

// EmbeddedReportHTML returns the report document inline for iframe
// embedding. The response is CORS-open regardless of the global CORS
// configuration.
func (h *Handler) EmbeddedReportHTML(c echo.Context) error {
	patientID, ok := patientIDParam(c)
	if !ok {
		return nil
	}

	doc, err := h.svc.RenderHTML(
		c.Request().Context(),
		patientID,
		c.QueryParam("start_date"),
		c.QueryParam("end_date"),
		ParseSections(c.QueryParam("sections")),
		includeAIParam(c),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to render report",
			"details": err.Error(),
		})
	}
	c.Response().Header().Set("Access-Control-Allow-Origin", "*")
	return c.HTMLBlob(http.StatusOK, doc)
}

// patientIDParam parses the required patient_id query parameter, writing
// the 400 response itself when the parameter is missing or non-numeric.
func patientIDParam(c echo.Context) (int64, bool) {
	raw := c.QueryParam("patient_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, map[string]string{"error": "patient_id is required"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string]string{"error": "patient_id must be numeric"})
		return 0, false
	}
	return id, true
}

// includeAIParam defaults to true, matching the report generation contract.
func includeAIParam(c echo.Context) bool {
	raw := c.QueryParam("include_ai")
	if raw == "" {
		return true
	}
	return strings.EqualFold(raw, "true")
}
