package chat

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cardwatch/reporting-api/internal/platform/ai"
)

var errPatientIDNotNumeric = errors.New("patient_id must be a number")

// PatientID decodes from either a JSON number or a numeric string; older
// dashboard builds quote the id in the chat payload.
type PatientID int64

func (p *PatientID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errPatientIDNotNumeric
	}
	*p = PatientID(n)
	return nil
}

type Request struct {
	PatientID   PatientID        `json:"patient_id"`
	Message     string           `json:"message"`
	ChatHistory []ai.ChatMessage `json:"chat_history"`
}

type Response struct {
	Response    string           `json:"response"`
	ChatHistory []ai.ChatMessage `json:"chat_history"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
}

func (h *Handler) Chat(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		msg := "No request data provided"
		if strings.Contains(err.Error(), errPatientIDNotNumeric.Error()) {
			msg = errPatientIDNotNumeric.Error()
		}
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}
	if req.PatientID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "patient_id is required"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}

	reply, history, err := h.svc.Respond(c.Request().Context(), int64(req.PatientID), req.Message, req.ChatHistory)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to process chat message",
			"details": err.Error(),
		})
	}
	if history == nil {
		history = []ai.ChatMessage{}
	}
	return c.JSON(http.StatusOK, Response{Response: reply, ChatHistory: history})
}
