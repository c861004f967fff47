package dashboard

import (
	"github.com/cardwatch/reporting-api/internal/domain/nutrition"
	"github.com/cardwatch/reporting-api/internal/domain/patient"
	"github.com/cardwatch/reporting-api/internal/platform/ai"
)

// PatientData is the raw aggregate of the five per-patient reads, before
// filtering and comparison.
type PatientData struct {
	Patient      *patient.Patient
	Allergies    []*patient.Allergy
	Transactions []*nutrition.FoodTransaction
	Targets      *nutrition.NutrientTarget
	Lookup       nutrition.Lookup
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type PatientSummary struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Age       *int     `json:"age"`
	Allergies []string `json:"allergies"`
}

type NutrientPair struct {
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
}

type Nutrients struct {
	Calories NutrientPair `json:"calories"`
	Carbs    NutrientPair `json:"carbs"`
	Protein  NutrientPair `json:"protein"`
	Fat      NutrientPair `json:"fat"`
	Fiber    NutrientPair `json:"fiber"`
}

type FoodItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Calories float64 `json:"calories"`
	Date     string  `json:"date"`
}

type Summary struct {
	TotalCalories      float64   `json:"total_calories"`
	TotalItemsConsumed int       `json:"total_items_consumed"`
	DateRange          DateRange `json:"date_range"`
}

// Payload is the dashboard document returned to clients and fed to the
// report renderer.
type Payload struct {
	Patient        PatientSummary `json:"patient"`
	Nutrients      Nutrients      `json:"nutrients"`
	FoodItems      []FoodItem     `json:"food_items"`
	Summary        Summary        `json:"summary"`
	AIAnalysis     *ai.Narrative  `json:"ai_analysis,omitempty"`
	AnalysisStatus string         `json:"analysis_status,omitempty"`
}

// Reduced returns a copy with the food-item list stripped, bounding the
// prompt size of AI calls.
func (p Payload) Reduced() Payload {
	p.FoodItems = nil
	return p
}
