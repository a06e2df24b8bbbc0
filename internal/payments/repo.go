package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/oviahome/oviahome-backend/pkg/db/models"
	"github.com/oviahome/oviahome-backend/pkg/enums"
)

// Repository persists payment transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error)
	FindByStripeSessionID(ctx context.Context, sessionID string) (*models.PaymentTransaction, error)

	// MarkTerminal moves the pending transaction for the session into a
	// terminal status. It reports whether this call performed the move; a
	// false result means the transaction already left pending.
	MarkTerminal(ctx context.Context, sessionID string, status enums.PaymentStatus, stripeStatus string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *repository) FindByStripeSessionID(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", sessionID).
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// The WHERE clause on payment_status makes the transition atomic: under a
// concurrent poll and webhook only one UPDATE matches the pending row.
func (r *repository) MarkTerminal(ctx context.Context, sessionID string, status enums.PaymentStatus, stripeStatus string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("stripe_session_id = ? AND payment_status = ?", sessionID, enums.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status": status,
			"stripe_status":  stripeStatus,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
