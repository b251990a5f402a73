package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/dkzinn98/gestor-financeiro/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence boundary for transactions. Every operation is
// scoped by the owning user id, which is injected by the caller and never
// trusted from input.
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Kind string     // income / expense
	From *time.Time // inclusive
	To   *time.Time // inclusive
}

// most-recent-first; id breaks ties between same-instant rows
const transactionOrder = "created_at DESC, id DESC"

// Create validates the canonical input and persists a new transaction for
// the user. Validation and insert run in one database transaction; on
// failure nothing is written.
func (s *Store) Create(ctx context.Context, userID uint, in Canonical) (*models.Transaction, error) {
	var created *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, violations, err := validateAndMerge(tx, userID, in, nil)
		if err != nil {
			return err
		}
		if violations != nil {
			return &ValidationError{Violations: violations}
		}
		if err := tx.Omit(clause.Associations).Create(rec).Error; err != nil {
			return &StorageError{Op: "create transaction", Err: err}
		}
		created = rec
		return nil
	})
	if err != nil {
		return nil, s.fail(err, userID, 0)
	}
	return created, nil
}

// Get returns the transaction iff it exists and belongs to the user.
// Cross-user reads are indistinguishable from nonexistence.
func (s *Store) Get(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	var rec models.Transaction
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.fail(&StorageError{Op: "get transaction", Err: err}, userID, id)
	}
	return &rec, nil
}

// List returns the user's transactions, most recent first, optionally
// filtered by kind and an inclusive date range.
func (s *Store) List(ctx context.Context, userID uint, f ListFilter) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if validKind(f.Kind) {
		q = q.Where("kind = ?", f.Kind)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date < ?", f.To.AddDate(0, 0, 1))
	}

	var recs []models.Transaction
	if err := q.Order(transactionOrder).Find(&recs).Error; err != nil {
		return nil, s.fail(&StorageError{Op: "list transactions", Err: err}, userID, 0)
	}
	return recs, nil
}

// Update merges the supplied fields onto the stored record, re-validates
// the merged result and persists it. Fields absent from the input are
// left untouched; the stored kind drives the category cross-check when no
// kind is supplied.
func (s *Store) Update(ctx context.Context, userID, id uint, in Canonical) (*models.Transaction, error) {
	var updated *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Transaction
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return &StorageError{Op: "load transaction", Err: err}
		}

		rec, violations, err := validateAndMerge(tx, userID, in, &existing)
		if err != nil {
			return err
		}
		if violations != nil {
			return &ValidationError{Violations: violations}
		}
		if err := tx.Omit(clause.Associations).Save(rec).Error; err != nil {
			return &StorageError{Op: "update transaction", Err: err}
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, s.fail(err, userID, id)
	}
	return updated, nil
}

// Delete removes an owned transaction. Deleting a missing or foreign id
// is ErrNotFound, not a silent no-op.
func (s *Store) Delete(ctx context.Context, userID, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Transaction
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return &StorageError{Op: "load transaction", Err: err}
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return &StorageError{Op: "delete transaction", Err: err}
		}
		return nil
	})
	if err != nil {
		return s.fail(err, userID, id)
	}
	return nil
}

// fail logs storage failures with operation context before they are
// surfaced. Validation outcomes pass through untouched; they are expected
// and never logged as errors.
func (s *Store) fail(err error, userID, id uint) error {
	var se *StorageError
	if errors.As(err, &se) {
		s.log.Error("transaction store failure",
			zap.String("op", se.Op),
			zap.Uint("user_id", userID),
			zap.Uint("transaction_id", id),
			zap.Error(se.Err),
		)
	}
	return err
}
