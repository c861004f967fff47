package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cardwatch/reporting-api/internal/platform/ai"
)

// Analyst produces the four-section narrative for a payload. Satisfied by
// *ai.Client.
type Analyst interface {
	Narrative(ctx context.Context, payload any) ai.NarrativeResult
}

type Service struct {
	collector *Collector
	analyst   Analyst
	logger    zerolog.Logger
}

func NewService(collector *Collector, analyst Analyst, logger zerolog.Logger) *Service {
	return &Service{
		collector: collector,
		analyst:   analyst,
		logger:    logger.With().Str("component", "dashboard").Logger(),
	}
}

// Build runs the full pipeline for one patient: collect, filter to the date
// window, compare against targets, and optionally attach the AI narrative.
func (s *Service) Build(ctx context.Context, patientID int64, start, end string, includeAnalysis bool) (*Payload, error) {
	if patientID <= 0 {
		return nil, fmt.Errorf("patient id must be positive")
	}
	data, err := s.collector.Collect(ctx, patientID)
	if err != nil {
		return nil, err
	}
	data.Transactions = FilterTransactions(s.logger, data.Transactions, start, end)

	payload := Compare(s.logger, data, start, end)

	if includeAnalysis && s.analyst != nil {
		res := s.analyst.Narrative(ctx, payload.Reduced())
		narrative := res.Narrative
		payload.AIAnalysis = &narrative
		payload.AnalysisStatus = res.Status
	}

	return &payload, nil
}
