package dashboard

import (
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Facility-wide daily targets, used when a patient has no target row or a
// target row leaves a nutrient unset.
const (
	DefaultCaloriesTarget = 2000
	DefaultProteinTarget  = 50
	DefaultCarbsTarget    = 250
	DefaultFatTarget      = 70
	DefaultFiberTarget    = 25
)

// Compare joins the filtered transactions against the nutrition lookup,
// accumulates per-nutrient totals weighted by serving count, and pairs each
// total with the patient's target (or the default). Transactions whose
// reference id is missing or unresolvable contribute nothing to the totals
// and are left out of the food-item list, but are logged.
func Compare(logger zerolog.Logger, data *PatientData, start, end string) Payload {
	totals := struct{ calories, protein, carbs, fat, fiber float64 }{}
	foodItems := []FoodItem{}

	for _, tx := range data.Transactions {
		if tx.NutritionRefID == nil {
			logger.Warn().Int64("transaction_id", tx.ID).Msg("transaction has no nutrition reference id")
			continue
		}
		ref, ok := data.Lookup[*tx.NutritionRefID]
		if !ok {
			logger.Warn().Int64("transaction_id", tx.ID).Int64("nutrition_ref_id", *tx.NutritionRefID).
				Msg("nutrition reference not found for transaction")
			continue
		}
		servings := tx.Servings()
		totals.calories += ref.Calories * servings
		totals.protein += ref.ProteinG * servings
		totals.carbs += ref.CarbsG * servings
		totals.fat += ref.FatG * servings
		totals.fiber += ref.FiberG * servings

		foodItems = append(foodItems, FoodItem{
			Name:     ref.FoodName,
			Quantity: servings,
			Calories: ref.Calories,
			Date:     tx.ConsumptionDate,
		})
	}

	allergens := make([]string, 0, len(data.Allergies))
	for _, a := range data.Allergies {
		allergens = append(allergens, a.Allergen)
	}

	summary := PatientSummary{Allergies: allergens}
	if data.Patient != nil {
		summary.ID = data.Patient.ID
		summary.Name = data.Patient.FullName()
		summary.Age = CalculateAge(data.Patient.DateOfBirth, time.Now())
	}

	return Payload{
		Patient: summary,
		Nutrients: Nutrients{
			Calories: NutrientPair{Actual: totals.calories, Target: targetOr(data.Targets.Calories(), DefaultCaloriesTarget)},
			Carbs:    NutrientPair{Actual: totals.carbs, Target: targetOr(data.Targets.Carbs(), DefaultCarbsTarget)},
			Protein:  NutrientPair{Actual: totals.protein, Target: targetOr(data.Targets.Protein(), DefaultProteinTarget)},
			Fat:      NutrientPair{Actual: totals.fat, Target: targetOr(data.Targets.Fat(), DefaultFatTarget)},
			Fiber:    NutrientPair{Actual: totals.fiber, Target: targetOr(data.Targets.Fiber(), DefaultFiberTarget)},
		},
		FoodItems: foodItems,
		Summary: Summary{
			TotalCalories:      totals.calories,
			TotalItemsConsumed: len(foodItems),
			DateRange:          DateRange{Start: start, End: end},
		},
	}
}

func targetOr(field *float64, def float64) float64 {
	if field == nil {
		return def
	}
	return *field
}

// CalculateAge returns completed years between dob (YYYY-MM-DD) and now,
// subtracting one when the current month/day precedes the birth month/day.
// Nil is returned when the date is absent or unparseable.
func CalculateAge(dob *string, now time.Time) *int {
	if dob == nil || *dob == "" {
		return nil
	}
	birth, err := time.Parse(dateLayout, *dob)
	if err != nil {
		return nil
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return &age
}

// PercentOfTarget returns actual as a rounded percentage of target, or 0
// when the target is 0.
func PercentOfTarget(actual, target float64) int {
	if target == 0 {
		return 0
	}
	return int(math.Round(actual / target * 100))
}
