package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cardwatch/reporting-api/internal/domain/dashboard"
	"github.com/cardwatch/reporting-api/internal/platform/ai"
)

// Chatter sends one chat turn with patient context. Satisfied by
// *ai.Client.
type Chatter interface {
	Chat(ctx context.Context, patientContext, message string, history []ai.ChatMessage) (string, []ai.ChatMessage)
}

type Service struct {
	collector *dashboard.Collector
	chatter   Chatter
	logger    zerolog.Logger
}

func NewService(collector *dashboard.Collector, chatter Chatter, logger zerolog.Logger) *Service {
	return &Service{
		collector: collector,
		chatter:   chatter,
		logger:    logger.With().Str("component", "chat").Logger(),
	}
}

// Respond answers one dietitian message about a patient, threading the
// prior history through the model and returning it extended with this
// turn.
func (s *Service) Respond(ctx context.Context, patientID int64, message string, history []ai.ChatMessage) (string, []ai.ChatMessage, error) {
	if patientID <= 0 {
		return "", nil, fmt.Errorf("patient id must be positive")
	}
	data, err := s.collector.Collect(ctx, patientID)
	if err != nil {
		return "", nil, err
	}
	reply, updated := s.chatter.Chat(ctx, systemPrompt(data), message, history)
	return reply, updated, nil
}

// systemPrompt embeds the patient's demographics, allergies, and targets
// into the assistant instructions.
func systemPrompt(data *dashboard.PatientData) string {
	name := ""
	age := "unknown"
	gender := "unknown"
	if data.Patient != nil {
		name = data.Patient.FullName()
		if a := dashboard.CalculateAge(data.Patient.DateOfBirth, time.Now()); a != nil {
			age = fmt.Sprintf("%d", *a)
		}
		if data.Patient.Gender != nil && *data.Patient.Gender != "" {
			gender = *data.Patient.Gender
		}
	}

	allergyList := "None recorded"
	if len(data.Allergies) > 0 {
		names := make([]string, 0, len(data.Allergies))
		for _, a := range data.Allergies {
			names = append(names, a.Allergen)
		}
		allergyList = strings.Join(names, ", ")
	}

	var targets strings.Builder
	if t := data.Targets; t != nil {
		if t.CaloriesTarget != nil {
			fmt.Fprintf(&targets, "Calories: %.0f ", *t.CaloriesTarget)
		}
		if t.ProteinTarget != nil {
			fmt.Fprintf(&targets, "Protein: %.0fg ", *t.ProteinTarget)
		}
		if t.CarbsTarget != nil {
			fmt.Fprintf(&targets, "Carbs: %.0fg ", *t.CarbsTarget)
		}
		if t.FatTarget != nil {
			fmt.Fprintf(&targets, "Fat: %.0fg ", *t.FatTarget)
		}
		if t.FiberTarget != nil {
			fmt.Fprintf(&targets, "Fiber: %.0fg ", *t.FiberTarget)
		}
	}
	targetInfo := targets.String()
	if targetInfo == "" {
		targetInfo = "None recorded"
	}

	return fmt.Sprintf(`You are CardWatch AI, an expert nutrition assistant helping dietitians analyze and provide insights for their patients.

PATIENT CONTEXT:
- Name: %s
- Age: %s
- Gender: %s
- Allergies: %s
- Nutrient Targets: %s

Answer questions about the patient's nutritional needs based on their data, provide scientifically backed advice, and explain nutritional concepts in clear, professional language. Maintain a professional tone suitable for a healthcare professional and be concise. If you lack the information for a specific recommendation, say so and suggest what additional data would help. Always consider the patient's allergies when making food recommendations.`,
		name, age, gender, allergyList, targetInfo)
}
