package dashboard

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cardwatch/reporting-api/internal/domain/nutrition"
	"github.com/cardwatch/reporting-api/internal/domain/patient"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(s string) *string   { return &s }

func testLookup() nutrition.Lookup {
	return nutrition.BuildLookup([]*nutrition.NutritionReference{
		{ID: 10, FoodName: "Oatmeal with Berries", Calories: 100, ProteinG: 5, CarbsG: 20, FatG: 2, FiberG: 1},
		{ID: 11, FoodName: "Grilled Chicken", Calories: 300, ProteinG: 35, CarbsG: 0, FatG: 12, FiberG: 0},
	})
}

func TestCompareWeightedTotals(t *testing.T) {
	data := &PatientData{
		Patient: &patient.Patient{ID: 1, FirstName: "Mary", LastName: "Johnson"},
		Transactions: []*nutrition.FoodTransaction{
			{ID: 1, PatientID: 1, NutritionRefID: i64(10), ServingCount: f64(2), ConsumptionDate: "2025-02-01"},
		},
		Lookup: testLookup(),
	}

	p := Compare(zerolog.Nop(), data, "2025-02-01", "2025-02-28")

	if p.Nutrients.Calories.Actual != 200 {
		t.Errorf("calories actual = %v, want 200", p.Nutrients.Calories.Actual)
	}
	if p.Nutrients.Protein.Actual != 10 {
		t.Errorf("protein actual = %v, want 10", p.Nutrients.Protein.Actual)
	}
	if p.Nutrients.Carbs.Actual != 40 {
		t.Errorf("carbs actual = %v, want 40", p.Nutrients.Carbs.Actual)
	}
	if p.Nutrients.Fat.Actual != 4 {
		t.Errorf("fat actual = %v, want 4", p.Nutrients.Fat.Actual)
	}
	if p.Nutrients.Fiber.Actual != 2 {
		t.Errorf("fiber actual = %v, want 2", p.Nutrients.Fiber.Actual)
	}
	if len(p.FoodItems) != 1 {
		t.Fatalf("food items = %d, want 1", len(p.FoodItems))
	}
	item := p.FoodItems[0]
	if item.Name != "Oatmeal with Berries" || item.Quantity != 2 || item.Date != "2025-02-01" {
		t.Errorf("food item = %+v", item)
	}
	if p.Summary.DateRange.Start != "2025-02-01" || p.Summary.DateRange.End != "2025-02-28" {
		t.Errorf("date range = %+v", p.Summary.DateRange)
	}
}

func TestCompareEmptyTransactionsDefaults(t *testing.T) {
	data := &PatientData{
		Patient: &patient.Patient{ID: 1, FirstName: "Mary", LastName: "Johnson"},
		Lookup:  testLookup(),
	}

	p := Compare(zerolog.Nop(), data, "", "")

	for name, pair := range map[string]NutrientPair{
		"calories": p.Nutrients.Calories,
		"protein":  p.Nutrients.Protein,
		"carbs":    p.Nutrients.Carbs,
		"fat":      p.Nutrients.Fat,
		"fiber":    p.Nutrients.Fiber,
	} {
		if pair.Actual != 0 {
			t.Errorf("%s actual = %v, want 0", name, pair.Actual)
		}
	}
	if p.Nutrients.Calories.Target != DefaultCaloriesTarget {
		t.Errorf("calories target = %v, want %v", p.Nutrients.Calories.Target, DefaultCaloriesTarget)
	}
	if p.Nutrients.Protein.Target != DefaultProteinTarget ||
		p.Nutrients.Carbs.Target != DefaultCarbsTarget ||
		p.Nutrients.Fat.Target != DefaultFatTarget ||
		p.Nutrients.Fiber.Target != DefaultFiberTarget {
		t.Errorf("targets = %+v, want defaults", p.Nutrients)
	}
	if p.Summary.TotalItemsConsumed != 0 {
		t.Errorf("item count = %d, want 0", p.Summary.TotalItemsConsumed)
	}
}

func TestComparePartialTargetOverride(t *testing.T) {
	data := &PatientData{
		Patient: &patient.Patient{ID: 1},
		Lookup:  testLookup(),
		Targets: &nutrition.NutrientTarget{PatientID: 1, CaloriesTarget: f64(1800), FiberTarget: f64(30)},
	}

	p := Compare(zerolog.Nop(), data, "", "")

	if p.Nutrients.Calories.Target != 1800 {
		t.Errorf("calories target = %v, want 1800", p.Nutrients.Calories.Target)
	}
	if p.Nutrients.Fiber.Target != 30 {
		t.Errorf("fiber target = %v, want 30", p.Nutrients.Fiber.Target)
	}
	if p.Nutrients.Protein.Target != DefaultProteinTarget {
		t.Errorf("protein target = %v, want default", p.Nutrients.Protein.Target)
	}
}

func TestCompareUnresolvableReference(t *testing.T) {
	data := &PatientData{
		Patient: &patient.Patient{ID: 1},
		Transactions: []*nutrition.FoodTransaction{
			{ID: 1, NutritionRefID: i64(10), ServingCount: f64(1), ConsumptionDate: "2025-02-01"},
			{ID: 2, NutritionRefID: i64(999), ServingCount: f64(3), ConsumptionDate: "2025-02-02"},
			{ID: 3, ConsumptionDate: "2025-02-03"}, // no ref id at all
		},
		Lookup: testLookup(),
	}

	p := Compare(zerolog.Nop(), data, "", "")

	if p.Nutrients.Calories.Actual != 100 {
		t.Errorf("calories actual = %v, want only the resolvable transaction counted", p.Nutrients.Calories.Actual)
	}
	if len(p.FoodItems) != 1 {
		t.Errorf("food items = %d, want unresolvable refs excluded", len(p.FoodItems))
	}
}

func TestCompareServingDefaultsToOne(t *testing.T) {
	data := &PatientData{
		Patient: &patient.Patient{ID: 1},
		Transactions: []*nutrition.FoodTransaction{
			{ID: 1, NutritionRefID: i64(11), ConsumptionDate: "2025-02-01"},
		},
		Lookup: testLookup(),
	}

	p := Compare(zerolog.Nop(), data, "", "")

	if p.Nutrients.Calories.Actual != 300 {
		t.Errorf("calories actual = %v, want one serving", p.Nutrients.Calories.Actual)
	}
	if p.FoodItems[0].Quantity != 1 {
		t.Errorf("quantity = %v, want 1", p.FoodItems[0].Quantity)
	}
}

func TestComparePatientBlock(t *testing.T) {
	data := &PatientData{
		Patient: &patient.Patient{ID: 1, FirstName: "Mary", LastName: "Johnson", DateOfBirth: str("1942-03-15")},
		Allergies: []*patient.Allergy{
			{ID: 1, PatientID: 1, Allergen: "peanuts"},
			{ID: 2, PatientID: 1, Allergen: "shellfish"},
		},
		Lookup: testLookup(),
	}

	p := Compare(zerolog.Nop(), data, "", "")

	if p.Patient.Name != "Mary Johnson" {
		t.Errorf("name = %q", p.Patient.Name)
	}
	if p.Patient.Age == nil {
		t.Fatal("age should be computed from date of birth")
	}
	if len(p.Patient.Allergies) != 2 || p.Patient.Allergies[0] != "peanuts" {
		t.Errorf("allergies = %v", p.Patient.Allergies)
	}
}

func TestCalculateAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		dob  string
		want int
	}{
		{"1942-03-15", 83}, // birthday passed this year
		{"1942-09-01", 82}, // birthday still ahead
		{"1942-06-15", 83}, // birthday today counts
		{"1942-06-16", 82}, // birthday tomorrow does not
	}
	for _, tc := range cases {
		got := CalculateAge(&tc.dob, now)
		if got == nil || *got != tc.want {
			t.Errorf("CalculateAge(%q) = %v, want %d", tc.dob, got, tc.want)
		}
	}

	if CalculateAge(nil, now) != nil {
		t.Error("nil dob should yield nil age")
	}
	bad := "not-a-date"
	if CalculateAge(&bad, now) != nil {
		t.Error("unparseable dob should yield nil age")
	}
}

func TestPercentOfTarget(t *testing.T) {
	cases := []struct {
		actual, target float64
		want           int
	}{
		{200, 2000, 10},
		{2000, 2000, 100},
		{2500, 2000, 125},
		{1, 3, 33},
		{2, 3, 67},
		{100, 0, 0},
	}
	for _, tc := range cases {
		if got := PercentOfTarget(tc.actual, tc.target); got != tc.want {
			t.Errorf("PercentOfTarget(%v, %v) = %d, want %d", tc.actual, tc.target, got, tc.want)
		}
	}
}
