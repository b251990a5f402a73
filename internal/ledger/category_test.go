package ledger

import (
	"github.com/dkzinn98/gestor-financeiro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *LedgerSuite) TestEnsureDefaultsIdempotent() {
	// SetupTest already seeded once; run twice more
	require.NoError(s.T(), s.cats.EnsureDefaults(s.ctx, s.userA.ID))
	require.NoError(s.T(), s.cats.EnsureDefaults(s.ctx, s.userA.ID))

	var count int64
	require.NoError(s.T(), s.db.Model(&models.Category{}).
		Where("user_id = ?", s.userA.ID).Count(&count).Error)
	assert.Equal(s.T(), int64(2), count)

	assert.Equal(s.T(), KindIncome, s.incomeCat.Kind)
	assert.Equal(s.T(), KindExpense, s.expenseCat.Kind)
}

func (s *LedgerSuite) TestCategoryCreateAndNormalize() {
	in := NormalizeCategory(map[string]any{
		"nome":      "Salario",
		"tipo":      "RECEITA",
		"descricao": "Pagamento mensal",
	})
	cat, err := s.cats.Create(s.ctx, s.userA.ID, in)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "Salario", cat.Name)
	assert.Equal(s.T(), KindIncome, cat.Kind)
	assert.Equal(s.T(), "Pagamento mensal", cat.Description)
	assert.Equal(s.T(), s.userA.ID, cat.UserID)
}

func (s *LedgerSuite) TestCategoryCreateViolations() {
	_, err := s.cats.Create(s.ctx, s.userA.ID, CategoryInput{Kind: strp("other")})

	var validation *ValidationError
	require.ErrorAs(s.T(), err, &validation)
	assert.Contains(s.T(), validation.Violations, "name")
	assert.Contains(s.T(), validation.Violations, "kind")
}

func (s *LedgerSuite) TestCategoryDuplicateName() {
	_, err := s.cats.Create(s.ctx, s.userA.ID,
		CategoryInput{Name: strp("INCOME"), Kind: strp(KindIncome)})

	var validation *ValidationError
	require.ErrorAs(s.T(), err, &validation)
	assert.Equal(s.T(), []string{"already_exists"}, validation.Violations["name"])

	// the same name under another user is fine
	_, err = s.cats.Create(s.ctx, s.userB.ID,
		CategoryInput{Name: strp("Salario"), Kind: strp(KindIncome)})
	require.NoError(s.T(), err)
}

func (s *LedgerSuite) TestCategoryOwnerScoping() {
	_, err := s.cats.Get(s.ctx, s.userA.ID, s.foreignCat.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	_, err = s.cats.Update(s.ctx, s.userA.ID, s.foreignCat.ID,
		CategoryInput{Name: strp("hijack")})
	assert.ErrorIs(s.T(), err, ErrNotFound)

	err = s.cats.Delete(s.ctx, s.userA.ID, s.foreignCat.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *LedgerSuite) TestCategoryUpdate() {
	cat, err := s.cats.Create(s.ctx, s.userA.ID,
		CategoryInput{Name: strp("Freelance"), Kind: strp(KindIncome)})
	require.NoError(s.T(), err)

	updated, err := s.cats.Update(s.ctx, s.userA.ID, cat.ID,
		CategoryInput{Description: strp("Side projects")})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Freelance", updated.Name, "untouched field preserved")
	assert.Equal(s.T(), "Side projects", updated.Description)
}

func (s *LedgerSuite) TestCategoryDeleteInUse() {
	s.mustCreate(s.userA.ID,
		canonical("Pay", "100.00", KindIncome, s.incomeCat.ID, "2026-03-01"))

	err := s.cats.Delete(s.ctx, s.userA.ID, s.incomeCat.ID)
	var validation *ValidationError
	require.ErrorAs(s.T(), err, &validation)
	assert.Equal(s.T(), []string{"in_use"}, validation.Violations["categoryId"])

	// unreferenced categories delete cleanly
	cat, err := s.cats.Create(s.ctx, s.userA.ID,
		CategoryInput{Name: strp("Temp"), Kind: strp(KindExpense)})
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.cats.Delete(s.ctx, s.userA.ID, cat.ID))

	_, err = s.cats.Get(s.ctx, s.userA.ID, cat.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *LedgerSuite) TestCategoryList() {
	cats, err := s.cats.List(s.ctx, s.userA.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), cats, 2)
	// ordered by name
	assert.Equal(s.T(), "EXPENSE", cats[0].Name)
	assert.Equal(s.T(), "INCOME", cats[1].Name)
}
