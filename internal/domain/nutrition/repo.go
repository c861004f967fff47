package nutrition

import "context"

type TransactionRepository interface {
	ListByPatient(ctx context.Context, patientID int64) ([]*FoodTransaction, error)
}

type ReferenceRepository interface {
	ListAll(ctx context.Context) ([]*NutritionReference, error)
}

// TargetRepository returns (nil, nil) when a patient has no target row;
// callers apply defaults.
type TargetRepository interface {
	GetByPatient(ctx context.Context, patientID int64) (*NutrientTarget, error)
}
