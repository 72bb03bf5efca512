package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingTokenAmount is the fixed fee (in rupees) charged to express booking
// interest. Full settlement happens outside this system.
const BookingTokenAmount int64 = 999

const (
	TxnPending   = "pending"
	TxnCompleted = "completed"
	TxnFailed    = "failed"
	TxnCancelled = "cancelled"
)

var TransactionStatuses = []string{TxnPending, TxnCompleted, TxnFailed, TxnCancelled}

type Transaction struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string    `gorm:"type:uuid;index" json:"user_id"`
	PropertyID        *string   `gorm:"type:uuid;index" json:"property_id"`
	PropertyTitle     string    `json:"property_title"`
	PropertyType      string    `json:"property_type"`
	Amount            int64     `json:"amount"`
	RazorpayOrderID   string    `json:"razorpay_order_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	RazorpaySignature string    `json:"razorpay_signature"`
	Status            string    `gorm:"index" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func IsValidTransactionStatus(s string) bool {
	return contains(TransactionStatuses, s)
}

// CanTransition reports whether a transaction may move from one status to
// another. Only pending transactions move, and only into a terminal state.
// Admin overrides bypass this check entirely.
func CanTransition(from, to string) bool {
	if from != TxnPending {
		return false
	}
	switch to {
	case TxnCompleted, TxnFailed, TxnCancelled:
		return true
	}
	return false
}

// AdminTransaction is the reconciliation view: a transaction joined in
// application code against the buyer's profile and the live property record.
// Missing joins degrade to nil fields.
type AdminTransaction struct {
	Transaction
	UserFullName     *string `json:"user_full_name"`
	UserPhone        *string `json:"user_phone"`
	PropertyLocation *string `json:"property_location"`
	PropertyDistrict *string `json:"property_district"`
	PropertyPrice    *int64  `json:"property_price"`
}
