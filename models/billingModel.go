package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing status lifecycle
const (
	BillingStatusPending   = "pending"
	BillingStatusPartial   = "partial"
	BillingStatusPaid      = "paid"
	BillingStatusCancelled = "cancelled"
)

// Payment methods
const (
	PaymentMethodCash         = "cash"
	PaymentMethodMpesa        = "mpesa"
	PaymentMethodInsurance    = "insurance"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodOther        = "other"
)

// InvoiceProjectCode is the two-letter project prefix embedded in every invoice number.
const InvoiceProjectCode = "AC"

// DefaultCurrency is used when a billing row carries no explicit currency.
const DefaultCurrency = "KES"

var (
	// ErrInvalidAmount is returned when a payment amount is missing, unparsable or not positive.
	ErrInvalidAmount = errors.New("payment amount must be a positive decimal")
	// ErrPaymentRequired is returned when a workflow step is blocked by an unpaid or missing invoice.
	ErrPaymentRequired = errors.New("payment required before this action")
)

// ServiceDefaultAmounts maps known service categories to their fixed prices (KES).
// Amounts for these services are overwritten at save time so staff cannot
// free-type a different charge for a standard service.
var ServiceDefaultAmounts = map[string]decimal.Decimal{
	"consultation":            decimal.NewFromInt(1000),
	"laboratory":              decimal.NewFromInt(1200),
	"imaging":                 decimal.NewFromInt(3000),
	"pharmacy":                decimal.NewFromInt(2500),
	"minor_procedure":         decimal.NewFromInt(3000),
	"surgery":                 decimal.NewFromInt(100000),
	"admission":               decimal.NewFromInt(8000),
	"maternity":               decimal.NewFromInt(70000),
	"physiotherapy":           decimal.NewFromInt(2000),
	"specialist_consultation": decimal.NewFromInt(4000),
}

// Billing model: one billable charge with an invoice lifecycle.
type Billing struct {
	ID              uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	InvoiceNumber   string          `gorm:"column:invoice_number;size:64;uniqueIndex" json:"invoice_number"`
	PatientID       *uint           `gorm:"column:patient_id;index" json:"patient_id"`
	PatientName     string          `gorm:"column:patient_name;size:200" json:"patient_name"`
	Service         string          `gorm:"column:service;size:128;index" json:"service"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Currency        string          `gorm:"column:currency;size:6" json:"currency"`
	Status          string          `gorm:"column:status;size:12;index" json:"status"`
	IsPaid          bool            `gorm:"column:is_paid" json:"is_paid"`
	ChargedByID     *int64          `gorm:"column:charged_by_id" json:"charged_by_id"`
	ChargedByName   string          `gorm:"column:charged_by_name;size:200" json:"charged_by_name"`
	LabRequestID    *uint           `gorm:"column:lab_request_id;index" json:"lab_request_id"`
	DispenseID      *uint           `gorm:"column:dispense_id;index" json:"dispense_id"`
	ReportReference string          `gorm:"column:report_reference;type:text" json:"report_reference"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Payments        []Payment       `gorm:"foreignKey:BillingID;references:ID" json:"payments,omitempty"`
	Patient         *Patient        `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Billing) TableName() string {
	return "billing"
}

// Payment model: an immutable ledger entry against a billing record.
// Payments are never updated in place; the refund path deletes the row.
type Payment struct {
	ID              uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	BillingID       uint            `gorm:"column:billing_id;not null;index" json:"billing_id"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	PaymentMethod   string          `gorm:"column:payment_method;size:50" json:"payment_method"`
	ReferenceNumber string          `gorm:"column:reference_number;size:128" json:"reference_number"`
	CreatedByID     *int64          `gorm:"column:created_by_id" json:"created_by_id"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Billing         *Billing        `gorm:"foreignKey:BillingID;references:ID" json:"-"`
}

func (Payment) TableName() string {
	return "payment"
}

// NewInvoiceNumber builds a human-facing invoice number: INV-AC-YYYYMMDD-XXXXXX.
// The token is the first six hex characters of a fresh UUID, uppercased.
func NewInvoiceNumber(now time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("INV-%s-%s-%s", InvoiceProjectCode, now.Format("20060102"), token)
}

// StatusForPaid is the pure status function:
// paid == 0 -> pending, 0 < paid < amount -> partial, paid >= amount -> paid.
func StatusForPaid(paid, amount decimal.Decimal) string {
	switch {
	case paid.Sign() <= 0:
		return BillingStatusPending
	case paid.LessThan(amount):
		return BillingStatusPartial
	default:
		return BillingStatusPaid
	}
}

// OutstandingBalance returns max(0, amount - paid). Overpayment is not modeled
// as credit; the balance simply floors at zero.
func OutstandingBalance(amount, paid decimal.Decimal) decimal.Decimal {
	balance := amount.Sub(paid)
	if balance.Sign() < 0 {
		return decimal.Zero
	}
	return balance
}

// Normalize applies the persistence invariants before every save:
// the fixed price-list override for known services, currency and status
// defaults, one-time invoice number generation and the is_paid sync.
func (b *Billing) Normalize() {
	if amount, ok := ServiceDefaultAmounts[b.Service]; ok {
		b.Amount = amount
	}
	if b.Currency == "" {
		b.Currency = DefaultCurrency
	}
	if b.Status == "" {
		b.Status = BillingStatusPending
	}
	if b.InvoiceNumber == "" {
		b.InvoiceNumber = NewInvoiceNumber(time.Now())
	}
	b.IsPaid = b.Status == BillingStatusPaid
}

// AppendCancelReason appends a timestamped cancellation note to the
// report_reference field. Prior notes are never overwritten.
func (b *Billing) AppendCancelReason(reason string, at time.Time) {
	if reason == "" {
		return
	}
	b.ReportReference = strings.TrimSpace(
		fmt.Sprintf("%s CANCELLED[%s]:%s", b.ReportReference, at.Format(time.RFC3339), reason))
}

// CacheNames stores display names on the billing row to avoid joins on reads.
func (b *Billing) CacheNames(patient *Patient, user *User) {
	if patient != nil {
		b.PatientName = patient.FullName()
	}
	if user != nil {
		b.ChargedByName = user.Username
	}
}
