package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cardwatch/reporting-api/internal/domain/nutrition"
	"github.com/cardwatch/reporting-api/internal/domain/patient"
)

// Collector joins the five per-patient reads into one PatientData. The
// patient row is required; failures on the secondary reads are logged and
// degrade to empty values so the pipeline keeps going.
type Collector struct {
	patients  patient.Repository
	allergies patient.AllergyRepository
	txs       nutrition.TransactionRepository
	refs      nutrition.ReferenceRepository
	targets   nutrition.TargetRepository
	logger    zerolog.Logger
}

func NewCollector(
	patients patient.Repository,
	allergies patient.AllergyRepository,
	txs nutrition.TransactionRepository,
	refs nutrition.ReferenceRepository,
	targets nutrition.TargetRepository,
	logger zerolog.Logger,
) *Collector {
	return &Collector{
		patients:  patients,
		allergies: allergies,
		txs:       txs,
		refs:      refs,
		targets:   targets,
		logger:    logger.With().Str("component", "collector").Logger(),
	}
}

func (c *Collector) Collect(ctx context.Context, patientID int64) (*PatientData, error) {
	p, err := c.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load patient %d: %w", patientID, err)
	}

	data := &PatientData{Patient: p}

	data.Allergies, err = c.allergies.ListByPatient(ctx, patientID)
	if err != nil {
		c.logger.Error().Err(err).Int64("patient_id", patientID).Msg("failed to load allergies")
		data.Allergies = nil
	}

	data.Transactions, err = c.txs.ListByPatient(ctx, patientID)
	if err != nil {
		c.logger.Error().Err(err).Int64("patient_id", patientID).Msg("failed to load food transactions")
		data.Transactions = nil
	}

	refs, err := c.refs.ListAll(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to load nutrition reference")
		refs = nil
	}
	data.Lookup = nutrition.BuildLookup(refs)

	data.Targets, err = c.targets.GetByPatient(ctx, patientID)
	if err != nil {
		c.logger.Error().Err(err).Int64("patient_id", patientID).Msg("failed to load nutrient targets")
		data.Targets = nil
	}

	return data, nil
}
