package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkzinn98/gestor-financeiro/internal/models"

	"gorm.io/gorm"
)

const maxDescriptionLen = 255

// ViolationCategoryNotFound deliberately covers "does not exist",
// "belongs to another user" and "kind conflicts with the transaction" so
// category existence never leaks across users.
const ViolationCategoryNotFound = "not_found_or_kind_mismatch"

// ParseAmountCents parses a non-negative decimal with at most two
// fractional digits into integer cents.
func ParseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, errors.New("negative amount")
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" || !digitsOnly(intPart) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if hasFrac && (fracPart == "" || len(fracPart) > 2 || !digitsOnly(fracPart)) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	var cents int64
	for _, ch := range intPart {
		cents = cents*10 + int64(ch-'0')
		if cents > 1<<53 {
			return 0, fmt.Errorf("amount too large %q", s)
		}
	}
	cents *= 100
	if hasFrac {
		frac := int64(fracPart[0]-'0') * 10
		if len(fracPart) == 2 {
			frac += int64(fracPart[1] - '0')
		}
		cents += frac
	}
	return cents, nil
}

func digitsOnly(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

// validKind reports whether k is one of the two canonical kind tokens.
func validKind(k string) bool {
	return k == KindIncome || k == KindExpense
}

// validateAndMerge checks the canonical input against field constraints
// and the category registry, then merges it onto existing (nil on create).
// All checks run to completion so the caller gets every violation at once.
// The returned error is a lookup failure of the store itself, never a
// validation outcome.
func validateAndMerge(db *gorm.DB, userID uint, in Canonical, existing *models.Transaction) (*models.Transaction, FieldViolations, error) {
	violations := FieldViolations{}

	tx := &models.Transaction{UserID: userID}
	if existing != nil {
		clone := *existing
		tx = &clone
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		switch {
		case desc == "":
			violations.add("description", "required")
		case len(desc) > maxDescriptionLen:
			violations.add("description", "too_long")
		default:
			tx.Description = desc
		}
	} else if existing == nil {
		violations.add("description", "required")
	}

	if in.Amount != nil {
		cents, err := ParseAmountCents(*in.Amount)
		if err != nil {
			violations.add("amount", "invalid")
		} else {
			tx.AmountCents = cents
		}
	} else if existing == nil {
		violations.add("amount", "required")
	}

	if in.Kind != nil {
		if !validKind(*in.Kind) {
			violations.add("kind", "invalid")
		} else {
			tx.Kind = *in.Kind
		}
	} else if existing == nil {
		violations.add("kind", "required")
	}

	// resolved kind: the incoming kind if supplied, else the stored one
	resolvedKind := tx.Kind

	// The category/kind cross-check runs whenever either side changes:
	// a supplied category, or a kind change against the stored category.
	checkCategory := in.CategoryID
	if checkCategory == nil {
		if existing == nil {
			violations.add("categoryId", "required")
		} else if in.Kind != nil && resolvedKind != existing.Kind {
			id := existing.CategoryID
			checkCategory = &id
		}
	}

	if checkCategory != nil {
		var cat models.Category
		err := db.Where("id = ? AND user_id = ?", *checkCategory, userID).First(&cat).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			violations.add("categoryId", ViolationCategoryNotFound)
		case err != nil:
			return nil, nil, &StorageError{Op: "lookup category", Err: err}
		case validKind(resolvedKind) && cat.Kind != resolvedKind:
			violations.add("categoryId", ViolationCategoryNotFound)
		default:
			tx.CategoryID = cat.ID
		}
	}

	if in.Date != nil {
		d, err := time.ParseInLocation(DateLayout, *in.Date, time.UTC)
		if err != nil {
			violations.add("transactionDate", "invalid")
		} else {
			tx.Date = d
		}
	}

	if len(violations) > 0 {
		return nil, violations, nil
	}
	return tx, nil, nil
}
