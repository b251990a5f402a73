package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/dkzinn98/gestor-financeiro/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Categories is the registry of user-scoped income/expense buckets.
type Categories struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCategories(db *gorm.DB, log *zap.Logger) *Categories {
	return &Categories{db: db, log: log}
}

// CategoryInput is the canonical category shape; nil fields were not
// supplied by the client.
type CategoryInput struct {
	Name        *string
	Kind        *string
	Description *string
}

// NormalizeCategory accepts both wire vocabularies for categories
// (nome/tipo/descricao and name/type/description), Portuguese preferred.
func NormalizeCategory(raw map[string]any) CategoryInput {
	var in CategoryInput
	if v, ok := pick(raw, []string{"nome", "name"}); ok {
		s := asString(v)
		in.Name = &s
	}
	if v, ok := pick(raw, []string{"tipo", "type", "kind"}); ok {
		k := NormalizeKind(asString(v))
		in.Kind = &k
	}
	if v, ok := pick(raw, []string{"descricao", "description"}); ok {
		s := asString(v)
		in.Description = &s
	}
	return in
}

// Defaults seeded for every user at registration.
var defaultCategories = []models.Category{
	{Name: "INCOME", Kind: KindIncome, Description: "Default income category"},
	{Name: "EXPENSE", Kind: KindExpense, Description: "Default expense category"},
}

// EnsureDefaults seeds the two default categories for a user. It is
// idempotent: the conditional insert is keyed on (user_id, name), which
// carries a unique index.
func (c *Categories) EnsureDefaults(ctx context.Context, userID uint) error {
	for _, def := range defaultCategories {
		cat := models.Category{UserID: userID, Name: def.Name}
		err := c.db.WithContext(ctx).
			Where("user_id = ? AND name = ?", userID, def.Name).
			Attrs(models.Category{Kind: def.Kind, Description: def.Description}).
			FirstOrCreate(&cat).Error
		if err != nil {
			return &StorageError{Op: "seed default categories", Err: err}
		}
	}
	return nil
}

// List returns all categories owned by the user.
func (c *Categories) List(ctx context.Context, userID uint) ([]models.Category, error) {
	var cats []models.Category
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&cats).Error
	if err != nil {
		return nil, &StorageError{Op: "list categories", Err: err}
	}
	return cats, nil
}

// Get returns the category iff it exists and belongs to the user.
func (c *Categories) Get(ctx context.Context, userID, id uint) (*models.Category, error) {
	var cat models.Category
	err := c.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get category", Err: err}
	}
	return &cat, nil
}

// Create validates and persists a new category for the user.
func (c *Categories) Create(ctx context.Context, userID uint, in CategoryInput) (*models.Category, error) {
	cat := models.Category{UserID: userID}
	if violations := mergeCategory(&cat, in, true); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	err := c.db.WithContext(ctx).Create(&cat).Error
	if err != nil {
		if isUniqueViolation(err) {
			v := FieldViolations{}
			v.add("name", "already_exists")
			return nil, &ValidationError{Violations: v}
		}
		return nil, &StorageError{Op: "create category", Err: err}
	}
	return &cat, nil
}

// Update applies the supplied fields to an owned category.
func (c *Categories) Update(ctx context.Context, userID, id uint, in CategoryInput) (*models.Category, error) {
	cat, err := c.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if violations := mergeCategory(cat, in, false); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if err := c.db.WithContext(ctx).Save(cat).Error; err != nil {
		if isUniqueViolation(err) {
			v := FieldViolations{}
			v.add("name", "already_exists")
			return nil, &ValidationError{Violations: v}
		}
		return nil, &StorageError{Op: "update category", Err: err}
	}
	return cat, nil
}

// Delete removes an owned category. Categories still referenced by
// transactions are kept and reported as in use.
func (c *Categories) Delete(ctx context.Context, userID, id uint) error {
	cat, err := c.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	var refs int64
	err = c.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ?", userID, id).
		Count(&refs).Error
	if err != nil {
		return &StorageError{Op: "count category references", Err: err}
	}
	if refs > 0 {
		v := FieldViolations{}
		v.add("categoryId", "in_use")
		return &ValidationError{Violations: v}
	}

	if err := c.db.WithContext(ctx).Delete(cat).Error; err != nil {
		return &StorageError{Op: "delete category", Err: err}
	}
	return nil
}

func mergeCategory(cat *models.Category, in CategoryInput, create bool) FieldViolations {
	violations := FieldViolations{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		switch {
		case name == "":
			violations.add("name", "required")
		case len(name) > 255:
			violations.add("name", "too_long")
		default:
			cat.Name = name
		}
	} else if create {
		violations.add("name", "required")
	}

	if in.Kind != nil {
		if !validKind(*in.Kind) {
			violations.add("kind", "invalid")
		} else {
			cat.Kind = *in.Kind
		}
	} else if create {
		violations.add("kind", "required")
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if len(desc) > 255 {
			violations.add("description", "too_long")
		} else {
			cat.Description = desc
		}
	}

	return violations
}

// isUniqueViolation matches sqlite's constraint error text; gorm does not
// expose a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
