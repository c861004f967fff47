package nutrition

// FoodTransaction records one consumption event for a patient.
// ConsumptionDate is carried as a YYYY-MM-DD string cast from the DATE
// column. NutritionRefID and ServingCount are nullable in legacy data.
type FoodTransaction struct {
	ID              int64    `db:"id" json:"id"`
	PatientID       int64    `db:"patient_id" json:"patient_id"`
	NutritionRefID  *int64   `db:"nutrition_ref_id" json:"nutrition_ref_id,omitempty"`
	ServingCount    *float64 `db:"serving_count" json:"quantity,omitempty"`
	ConsumptionDate string   `db:"consumption_date" json:"date"`
}

// Servings returns the serving count, defaulting to 1 when unset.
func (t *FoodTransaction) Servings() float64 {
	if t.ServingCount == nil {
		return 1
	}
	return *t.ServingCount
}

// NutritionReference holds per-serving nutrient values for a food item.
type NutritionReference struct {
	ID       int64   `db:"id" json:"id"`
	FoodName string  `db:"food_name" json:"food_name"`
	Calories float64 `db:"calories" json:"calories"`
	ProteinG float64 `db:"protein_g" json:"protein"`
	CarbsG   float64 `db:"carbs_g" json:"carbs"`
	FatG     float64 `db:"fat_g" json:"fat"`
	FiberG   float64 `db:"fiber_g" json:"fiber"`
}

// NutrientTarget holds per-patient daily targets. Nil fields fall back to
// facility-wide defaults at comparison time.
type NutrientTarget struct {
	PatientID      int64    `db:"patient_id" json:"patient_id"`
	CaloriesTarget *float64 `db:"calories_target" json:"calories_target,omitempty"`
	ProteinTarget  *float64 `db:"protein_target" json:"protein_target,omitempty"`
	CarbsTarget    *float64 `db:"carbs_target" json:"carbs_target,omitempty"`
	FatTarget      *float64 `db:"fat_target" json:"fat_target,omitempty"`
	FiberTarget    *float64 `db:"fiber_target" json:"fiber_target,omitempty"`
}

// Nil-receiver accessors let callers read targets without checking whether
// the patient has a target row at all.

func (t *NutrientTarget) Calories() *float64 {
	if t == nil {
		return nil
	}
	return t.CaloriesTarget
}

func (t *NutrientTarget) Protein() *float64 {
	if t == nil {
		return nil
	}
	return t.ProteinTarget
}

func (t *NutrientTarget) Carbs() *float64 {
	if t == nil {
		return nil
	}
	return t.CarbsTarget
}

func (t *NutrientTarget) Fat() *float64 {
	if t == nil {
		return nil
	}
	return t.FatTarget
}

func (t *NutrientTarget) Fiber() *float64 {
	if t == nil {
		return nil
	}
	return t.FiberTarget
}

// Lookup indexes nutrition references by id for O(1) joins against
// transactions.
type Lookup map[int64]*NutritionReference

// BuildLookup builds a Lookup from a reference list.
func BuildLookup(refs []*NutritionReference) Lookup {
	m := make(Lookup, len(refs))
	for _, r := range refs {
		m[r.ID] = r
	}
	return m
}
