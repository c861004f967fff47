package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cardwatch/reporting-api/internal/domain/dashboard"
	"github.com/cardwatch/reporting-api/internal/domain/nutrition"
	"github.com/cardwatch/reporting-api/internal/domain/patient"
	"github.com/cardwatch/reporting-api/internal/platform/ai"
)

func strptr(s string) *string { return &s }
func f64(v float64) *float64  { return &v }

type mockPatientRepo struct{}

func (m *mockPatientRepo) List(ctx context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	return nil, 0, nil
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id int64) (*patient.Patient, error) {
	if id != 1 {
		return nil, fmt.Errorf("patient %d not found", id)
	}
	return &patient.Patient{
		ID: 1, FirstName: "Mary", LastName: "Johnson",
		DateOfBirth: strptr("1942-03-15"), Gender: strptr("female"),
	}, nil
}

type mockAllergyRepo struct{}

func (m *mockAllergyRepo) ListByPatient(ctx context.Context, patientID int64) ([]*patient.Allergy, error) {
	return []*patient.Allergy{{ID: 1, PatientID: patientID, Allergen: "peanuts"}}, nil
}

type mockTxRepo struct{}

func (m *mockTxRepo) ListByPatient(ctx context.Context, patientID int64) ([]*nutrition.FoodTransaction, error) {
	return nil, nil
}

type mockRefRepo struct{}

func (m *mockRefRepo) ListAll(ctx context.Context) ([]*nutrition.NutritionReference, error) {
	return nil, nil
}

type mockTargetRepo struct{}

func (m *mockTargetRepo) GetByPatient(ctx context.Context, patientID int64) (*nutrition.NutrientTarget, error) {
	return &nutrition.NutrientTarget{PatientID: patientID, CaloriesTarget: f64(1800)}, nil
}

type mockChatter struct {
	gotContext string
	gotMessage string
	reply      string
}

func (m *mockChatter) Chat(ctx context.Context, patientContext, message string, history []ai.ChatMessage) (string, []ai.ChatMessage) {
	m.gotContext = patientContext
	m.gotMessage = message
	updated := append(append([]ai.ChatMessage{}, history...),
		ai.ChatMessage{Role: "user", Content: message},
		ai.ChatMessage{Role: "assistant", Content: m.reply})
	return m.reply, updated
}

func newTestService(chatter Chatter) *Service {
	collector := dashboard.NewCollector(
		&mockPatientRepo{}, &mockAllergyRepo{}, &mockTxRepo{}, &mockRefRepo{}, &mockTargetRepo{},
		zerolog.Nop(),
	)
	return NewService(collector, chatter, zerolog.Nop())
}

func TestRespondBuildsPatientContext(t *testing.T) {
	chatter := &mockChatter{reply: "Mary should avoid peanut products."}
	svc := newTestService(chatter)

	reply, history, err := svc.Respond(context.Background(), 1, "What should Mary avoid?", nil)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if reply != chatter.reply {
		t.Errorf("reply = %q", reply)
	}
	if len(history) != 2 {
		t.Errorf("history = %d turns, want 2", len(history))
	}
	for _, want := range []string{"Mary Johnson", "peanuts", "Calories: 1800", "female"} {
		if !strings.Contains(chatter.gotContext, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if chatter.gotMessage != "What should Mary avoid?" {
		t.Errorf("message = %q", chatter.gotMessage)
	}
}

func TestRespondExtendsHistory(t *testing.T) {
	chatter := &mockChatter{reply: "Yes."}
	svc := newTestService(chatter)

	prior := []ai.ChatMessage{
		{Role: "user", Content: "Is fiber low?"},
		{Role: "assistant", Content: "Slightly."},
	}
	_, history, err := svc.Respond(context.Background(), 1, "Should we adjust?", prior)
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("history = %d turns, want 4", len(history))
	}
	if history[0].Content != "Is fiber low?" || history[3].Content != "Yes." {
		t.Errorf("history = %+v", history)
	}
}

func TestRespondUnknownPatient(t *testing.T) {
	svc := newTestService(&mockChatter{})

	if _, _, err := svc.Respond(context.Background(), 99, "hi", nil); err == nil {
		t.Error("Respond should fail for unknown patient")
	}
	if _, _, err := svc.Respond(context.Background(), 0, "hi", nil); err == nil {
		t.Error("Respond should reject non-positive ids")
	}
}
