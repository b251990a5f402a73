package ledger

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *LedgerSuite) TestSummaryEmpty() {
	summary, err := s.store.Summary(s.ctx, s.userA.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), Summary{}, summary)
}

func (s *LedgerSuite) TestSummaryScenario() {
	s.mustCreate(s.userA.ID,
		canonical("March pay", "1000.00", KindIncome, s.incomeCat.ID, "2026-03-01"))

	summary, err := s.store.Summary(s.ctx, s.userA.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), Summary{TotalIncome: 1000.00, TotalExpense: 0, Balance: 1000.00}, summary)

	rent := s.mustCreate(s.userA.ID,
		canonical("Rent", "400.00", KindExpense, s.expenseCat.ID, "2026-03-05"))

	summary, err = s.store.Summary(s.ctx, s.userA.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), Summary{TotalIncome: 1000.00, TotalExpense: 400.00, Balance: 600.00}, summary)

	recent, err := s.store.Recent(s.ctx, s.userA.ID, 1)
	require.NoError(s.T(), err)
	require.Len(s.T(), recent, 1)
	assert.Equal(s.T(), rent.ID, recent[0].ID)

	// deleting the expense reverts the summary
	require.NoError(s.T(), s.store.Delete(s.ctx, s.userA.ID, rent.ID))

	summary, err = s.store.Summary(s.ctx, s.userA.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), Summary{TotalIncome: 1000.00, TotalExpense: 0, Balance: 1000.00}, summary)
}

func (s *LedgerSuite) TestSummaryNegativeBalance() {
	s.mustCreate(s.userA.ID,
		canonical("Pay", "100.00", KindIncome, s.incomeCat.ID, "2026-03-01"))
	s.mustCreate(s.userA.ID,
		canonical("Splurge", "250.75", KindExpense, s.expenseCat.ID, "2026-03-02"))

	summary, err := s.store.Summary(s.ctx, s.userA.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), Summary{TotalIncome: 100.00, TotalExpense: 250.75, Balance: -150.75}, summary)
}

func (s *LedgerSuite) TestSummaryScopedToUser() {
	s.mustCreate(s.userA.ID,
		canonical("A pay", "100.00", KindIncome, s.incomeCat.ID, "2026-03-01"))
	s.mustCreate(s.userB.ID,
		canonical("B pay", "999.00", KindIncome, s.foreignCat.ID, "2026-03-01"))

	summary, err := s.store.Summary(s.ctx, s.userA.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 100.00, summary.TotalIncome)
}

func (s *LedgerSuite) TestRecentDefaultLimit() {
	for i := 0; i < 8; i++ {
		s.mustCreate(s.userA.ID,
			canonical("Coffee", "5.00", KindExpense, s.expenseCat.ID, "2026-03-01"))
	}

	recent, err := s.store.Recent(s.ctx, s.userA.ID, 0)
	require.NoError(s.T(), err)
	assert.Len(s.T(), recent, DefaultRecentLimit)

	// most recent first
	for i := 1; i < len(recent); i++ {
		assert.Greater(s.T(), recent[i-1].ID, recent[i].ID)
	}
}
