package dashboard

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/cardwatch/reporting-api/internal/domain/nutrition"
)

const dateLayout = "2006-01-02"

// FilterTransactions restricts txs to the inclusive [start, end] window.
// If either bound is empty the input is returned unmodified. Malformed
// bounds leave the input untouched rather than failing the caller.
// Transactions whose date cannot be parsed are excluded, not raised.
func FilterTransactions(logger zerolog.Logger, txs []*nutrition.FoodTransaction, start, end string) []*nutrition.FoodTransaction {
	if start == "" || end == "" {
		return txs
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		logger.Error().Err(err).Str("start_date", start).Msg("invalid start date, skipping filter")
		return txs
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		logger.Error().Err(err).Str("end_date", end).Msg("invalid end date, skipping filter")
		return txs
	}

	filtered := make([]*nutrition.FoodTransaction, 0, len(txs))
	for _, tx := range txs {
		txDate, err := time.Parse(dateLayout, tx.ConsumptionDate)
		if err != nil {
			logger.Error().Err(err).Int64("transaction_id", tx.ID).
				Str("consumption_date", tx.ConsumptionDate).
				Msg("unparseable consumption date, excluding transaction")
			continue
		}
		if !txDate.Before(startDate) && !txDate.After(endDate) {
			filtered = append(filtered, tx)
		}
	}
	logger.Debug().Int("before", len(txs)).Int("after", len(filtered)).
		Str("start_date", start).Str("end_date", end).
		Msg("filtered transactions by date")
	return filtered
}
