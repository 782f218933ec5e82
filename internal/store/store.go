// Package store persists checkout reconciliation records. The
// transaction and invoice writes straddle a gateway network call, so
// they form an explicit two-phase sequence with a compensating delete
// instead of one enclosing database transaction.
package store

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/uden-ai/uden-server/internal/billing"
	"github.com/uden-ai/uden-server/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReconciliationStore writes Transaction and Invoice pairs for opened
// checkout sessions.
type ReconciliationStore struct {
	db *gorm.DB
}

// NewReconciliationStore constructs a ReconciliationStore.
func NewReconciliationStore(db *gorm.DB) *ReconciliationStore {
	return &ReconciliationStore{db: db}
}

// RecordCheckout persists a Transaction capturing the full session
// payload, then an Invoice referencing it. If the invoice write fails,
// the transaction row is deleted so no dangling Transaction survives
// the workflow.
func (s *ReconciliationStore) RecordCheckout(ctx context.Context, userID uint64, session *billing.CheckoutSession) (*models.Transaction, *models.Invoice, error) {
	if s == nil || s.db == nil {
		return nil, nil, fmt.Errorf("store: not initialized")
	}
	if session == nil || session.ID == "" {
		return nil, nil, fmt.Errorf("store: missing checkout session")
	}

	payload := session.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	transaction := models.Transaction{
		StripeID: session.ID,
		Data:     datatypes.JSON(payload),
		UserID:   userID,
	}
	if errCreate := s.db.WithContext(ctx).Create(&transaction).Error; errCreate != nil {
		return nil, nil, fmt.Errorf("store: persist transaction: %w", errCreate)
	}

	invoice := models.Invoice{
		StripeID:      session.InvoiceID,
		UserID:        userID,
		TransactionID: transaction.ID,
	}
	if errCreate := s.db.WithContext(ctx).Create(&invoice).Error; errCreate != nil {
		if errDelete := s.db.WithContext(ctx).Delete(&models.Transaction{}, transaction.ID).Error; errDelete != nil {
			log.WithError(errDelete).WithField("transaction_id", transaction.ID).
				Error("store: compensating transaction delete failed")
		}
		return nil, nil, fmt.Errorf("store: persist invoice: %w", errCreate)
	}

	return &transaction, &invoice, nil
}
