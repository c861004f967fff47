package nutrition

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txRepoPG struct{ pool *pgxpool.Pool }

func NewTransactionRepoPG(pool *pgxpool.Pool) TransactionRepository {
	return &txRepoPG{pool: pool}
}

func (r *txRepoPG) ListByPatient(ctx context.Context, patientID int64) ([]*FoodTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, nutrition_ref_id, serving_count, consumption_date::text
		FROM food_transactions WHERE patient_id = $1 ORDER BY consumption_date, id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*FoodTransaction
	for rows.Next() {
		var t FoodTransaction
		if err := rows.Scan(&t.ID, &t.PatientID, &t.NutritionRefID, &t.ServingCount, &t.ConsumptionDate); err != nil {
			return nil, err
		}
		items = append(items, &t)
	}
	return items, rows.Err()
}

type refRepoPG struct{ pool *pgxpool.Pool }

func NewReferenceRepoPG(pool *pgxpool.Pool) ReferenceRepository {
	return &refRepoPG{pool: pool}
}

func (r *refRepoPG) ListAll(ctx context.Context) ([]*NutritionReference, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, food_name, calories, protein_g, carbs_g, fat_g, fiber_g
		FROM nutrition_reference ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*NutritionReference
	for rows.Next() {
		var ref NutritionReference
		if err := rows.Scan(&ref.ID, &ref.FoodName, &ref.Calories, &ref.ProteinG, &ref.CarbsG, &ref.FatG, &ref.FiberG); err != nil {
			return nil, err
		}
		items = append(items, &ref)
	}
	return items, rows.Err()
}

type targetRepoPG struct{ pool *pgxpool.Pool }

func NewTargetRepoPG(pool *pgxpool.Pool) TargetRepository {
	return &targetRepoPG{pool: pool}
}

func (r *targetRepoPG) GetByPatient(ctx context.Context, patientID int64) (*NutrientTarget, error) {
	var t NutrientTarget
	err := r.pool.QueryRow(ctx, `
		SELECT patient_id, calories_target, protein_target, carbs_target, fat_target, fiber_target
		FROM nutrient_targets WHERE patient_id = $1`, patientID).
		Scan(&t.PatientID, &t.CaloriesTarget, &t.ProteinTarget, &t.CarbsTarget, &t.FatTarget, &t.FiberTarget)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
