package ledger

import (
	"context"

	"github.com/dkzinn98/gestor-financeiro/internal/models"
)

// DefaultRecentLimit bounds the dashboard's recent view when the caller
// does not specify one.
const DefaultRecentLimit = 5

// Summary is the derived financial projection over one user's
// transactions. Values are decimals rounded to two places; Balance may be
// negative.
type Summary struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

// Summary sums amounts grouped by kind over all of the user's
// transactions. The arithmetic is exact: sums run over integer cents and
// only the boundary values are converted to decimals.
func (s *Store) Summary(ctx context.Context, userID uint) (Summary, error) {
	type kindTotal struct {
		Kind  string
		Total int64
	}
	var totals []kindTotal
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("kind, COALESCE(SUM(amount_cents), 0) AS total").
		Where("user_id = ?", userID).
		Group("kind").
		Scan(&totals).Error
	if err != nil {
		return Summary{}, s.fail(&StorageError{Op: "summarize transactions", Err: err}, userID, 0)
	}

	var incomeCents, expenseCents int64
	for _, t := range totals {
		switch t.Kind {
		case KindIncome:
			incomeCents = t.Total
		case KindExpense:
			expenseCents = t.Total
		}
	}

	return Summary{
		TotalIncome:  CentsToDecimal(incomeCents),
		TotalExpense: CentsToDecimal(expenseCents),
		Balance:      CentsToDecimal(incomeCents - expenseCents),
	}, nil
}

// Recent returns the limit most-recently-created transactions for the
// user, same ordering as List.
func (s *Store) Recent(ctx context.Context, userID uint, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var recs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(transactionOrder).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, s.fail(&StorageError{Op: "recent transactions", Err: err}, userID, 0)
	}
	return recs, nil
}

// CentsToDecimal converts integer cents to the 2-decimal boundary value.
func CentsToDecimal(cents int64) float64 {
	return float64(cents) / 100
}
