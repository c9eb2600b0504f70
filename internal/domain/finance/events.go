package finance

import (
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type names
const (
	EventTypeAccountPayableCreated   = "AccountPayableCreated"
	EventTypeAccountPayableUpdated   = "AccountPayableUpdated"
	EventTypeAccountPayablePaid      = "AccountPayablePaid"
	EventTypeAccountPayableCancelled = "AccountPayableCancelled"
	EventTypeAccountPayableDeleted   = "AccountPayableDeleted"

	EventTypeAccountReceivableCreated   = "AccountReceivableCreated"
	EventTypeAccountReceivableUpdated   = "AccountReceivableUpdated"
	EventTypeAccountReceivableReceived  = "AccountReceivableReceived"
	EventTypeAccountReceivableCancelled = "AccountReceivableCancelled"
	EventTypeAccountReceivableDeleted   = "AccountReceivableDeleted"

	EventTypeFinancialTransactionCreated = "FinancialTransactionCreated"
	EventTypeFinancialTransactionUpdated = "FinancialTransactionUpdated"
	EventTypeFinancialTransactionDeleted = "FinancialTransactionDeleted"

	EventTypeWalletBalanceAdjusted = "WalletBalanceAdjusted"
)

// ObligationEvent is raised on every lifecycle change of a payable or receivable
type ObligationEvent struct {
	shared.BaseDomainEvent
	Status                 string          `json:"status"`
	Description            string          `json:"description"`
	Amount                 decimal.Decimal `json:"amount"`
	DueDate                time.Time       `json:"due_date"`
	OriginType             OriginType      `json:"origin_type,omitempty"`
	OriginID               *uuid.UUID      `json:"origin_id,omitempty"`
	FinancialTransactionID *uuid.UUID      `json:"financial_transaction_id,omitempty"`
	SettledAt              *time.Time      `json:"settled_at,omitempty"`
}

func newPayableEvent(eventType string, ap *AccountPayable) *ObligationEvent {
	return &ObligationEvent{
		BaseDomainEvent:        shared.NewBaseDomainEvent(eventType, EntityTypeAccountPayable, ap.ID, ap.CompanyID, ap.BranchID),
		Status:                 ap.Status.String(),
		Description:            ap.Description,
		Amount:                 ap.Amount,
		DueDate:                ap.DueDate,
		OriginType:             ap.Origin.Type,
		OriginID:               ap.Origin.ID,
		FinancialTransactionID: ap.FinancialTransactionID,
		SettledAt:              ap.PaymentDate,
	}
}

func newReceivableEvent(eventType string, ar *AccountReceivable) *ObligationEvent {
	return &ObligationEvent{
		BaseDomainEvent:        shared.NewBaseDomainEvent(eventType, EntityTypeAccountReceivable, ar.ID, ar.CompanyID, ar.BranchID),
		Status:                 ar.Status.String(),
		Description:            ar.Description,
		Amount:                 ar.Amount,
		DueDate:                ar.DueDate,
		OriginType:             ar.Origin.Type,
		OriginID:               ar.Origin.ID,
		FinancialTransactionID: ar.FinancialTransactionID,
		SettledAt:              ar.ReceiptDate,
	}
}

// NewAccountPayableCreatedEvent creates an AccountPayableCreated event
func NewAccountPayableCreatedEvent(ap *AccountPayable) *ObligationEvent {
	return newPayableEvent(EventTypeAccountPayableCreated, ap)
}

// NewAccountPayableUpdatedEvent creates an AccountPayableUpdated event
func NewAccountPayableUpdatedEvent(ap *AccountPayable) *ObligationEvent {
	return newPayableEvent(EventTypeAccountPayableUpdated, ap)
}

// NewAccountPayablePaidEvent creates an AccountPayablePaid event
func NewAccountPayablePaidEvent(ap *AccountPayable) *ObligationEvent {
	return newPayableEvent(EventTypeAccountPayablePaid, ap)
}

// NewAccountPayableCancelledEvent creates an AccountPayableCancelled event
func NewAccountPayableCancelledEvent(ap *AccountPayable) *ObligationEvent {
	return newPayableEvent(EventTypeAccountPayableCancelled, ap)
}

// NewAccountPayableDeletedEvent creates an AccountPayableDeleted event
func NewAccountPayableDeletedEvent(ap *AccountPayable) *ObligationEvent {
	return newPayableEvent(EventTypeAccountPayableDeleted, ap)
}

// NewAccountReceivableCreatedEvent creates an AccountReceivableCreated event
func NewAccountReceivableCreatedEvent(ar *AccountReceivable) *ObligationEvent {
	return newReceivableEvent(EventTypeAccountReceivableCreated, ar)
}

// NewAccountReceivableUpdatedEvent creates an AccountReceivableUpdated event
func NewAccountReceivableUpdatedEvent(ar *AccountReceivable) *ObligationEvent {
	return newReceivableEvent(EventTypeAccountReceivableUpdated, ar)
}

// NewAccountReceivableReceivedEvent creates an AccountReceivableReceived event
func NewAccountReceivableReceivedEvent(ar *AccountReceivable) *ObligationEvent {
	return newReceivableEvent(EventTypeAccountReceivableReceived, ar)
}

// NewAccountReceivableCancelledEvent creates an AccountReceivableCancelled event
func NewAccountReceivableCancelledEvent(ar *AccountReceivable) *ObligationEvent {
	return newReceivableEvent(EventTypeAccountReceivableCancelled, ar)
}

// NewAccountReceivableDeletedEvent creates an AccountReceivableDeleted event
func NewAccountReceivableDeletedEvent(ar *AccountReceivable) *ObligationEvent {
	return newReceivableEvent(EventTypeAccountReceivableDeleted, ar)
}

// FinancialTransactionEvent is raised when a transaction is recorded, edited or removed
type FinancialTransactionEvent struct {
	shared.BaseDomainEvent
	Reference       string          `json:"reference"`
	TransactionType TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	OriginType      OriginType      `json:"origin_type,omitempty"`
	OriginID        *uuid.UUID      `json:"origin_id,omitempty"`
}

func newTransactionEvent(eventType string, ft *FinancialTransaction) *FinancialTransactionEvent {
	return &FinancialTransactionEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, EntityTypeFinancialTransaction, ft.ID, ft.CompanyID, ft.BranchID),
		Reference:       ft.Reference,
		TransactionType: ft.Type,
		Amount:          ft.Amount,
		TransactionDate: ft.TransactionDate,
		OriginType:      ft.Origin.Type,
		OriginID:        ft.Origin.ID,
	}
}

// NewFinancialTransactionCreatedEvent creates a FinancialTransactionCreated event
func NewFinancialTransactionCreatedEvent(ft *FinancialTransaction) *FinancialTransactionEvent {
	return newTransactionEvent(EventTypeFinancialTransactionCreated, ft)
}

// NewFinancialTransactionUpdatedEvent creates a FinancialTransactionUpdated event
func NewFinancialTransactionUpdatedEvent(ft *FinancialTransaction) *FinancialTransactionEvent {
	return newTransactionEvent(EventTypeFinancialTransactionUpdated, ft)
}

// NewFinancialTransactionDeletedEvent creates a FinancialTransactionDeleted event
func NewFinancialTransactionDeletedEvent(ft *FinancialTransaction) *FinancialTransactionEvent {
	return newTransactionEvent(EventTypeFinancialTransactionDeleted, ft)
}

// WalletBalanceAdjustedEvent is raised when an administrator overrides a balance
type WalletBalanceAdjustedEvent struct {
	shared.BaseDomainEvent
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	AdjustmentType  AdjustmentType  `json:"adjustment_type"`
	Reason          string          `json:"reason"`
	ActorID         uuid.UUID       `json:"actor_id"`
}

// NewWalletBalanceAdjustedEvent creates a WalletBalanceAdjusted event
func NewWalletBalanceAdjustedEvent(a *BalanceAdjustment) *WalletBalanceAdjustedEvent {
	return &WalletBalanceAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletBalanceAdjusted, EntityTypeBranchWallet, a.BranchID, a.CompanyID, a.BranchID),
		PreviousBalance: a.PreviousBalance,
		NewBalance:      a.NewBalance,
		AdjustmentType:  a.AdjustmentType,
		Reason:          a.Reason,
		ActorID:         a.ActorID,
	}
}
