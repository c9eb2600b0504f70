package finance

import (
	"time"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Payables and receivables =====================

// CreateObligationRequest creates a payable or a receivable
type CreateObligationRequest struct {
	Description    string          `json:"description" binding:"required,max=500"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DueDate        time.Time       `json:"due_date" binding:"required"`
	BranchID       *uuid.UUID      `json:"branch_id"`
	OriginType     string          `json:"origin_type" binding:"omitempty,oneof=MAINTENANCE_ORDER STOCK_MOVEMENT PAYROLL MANUAL"`
	OriginID       *uuid.UUID      `json:"origin_id"`
	DocumentNumber string          `json:"document_number" binding:"max=100"`
	Notes          string          `json:"notes"`
}

// UpdateObligationRequest is a partial update. Omitted fields stay unchanged.
type UpdateObligationRequest struct {
	Description    *string          `json:"description" binding:"omitempty,max=500"`
	Amount         *decimal.Decimal `json:"amount"`
	DueDate        *time.Time       `json:"due_date"`
	BranchID       *uuid.UUID       `json:"branch_id"`
	OriginType     *string          `json:"origin_type" binding:"omitempty,oneof=MAINTENANCE_ORDER STOCK_MOVEMENT PAYROLL MANUAL"`
	OriginID       *uuid.UUID       `json:"origin_id"`
	DocumentNumber *string          `json:"document_number" binding:"omitempty,max=100"`
	Notes          *string          `json:"notes"`
}

func (r UpdateObligationRequest) toDomain() finance.ObligationUpdate {
	u := finance.ObligationUpdate{
		BranchID:       r.BranchID,
		Description:    r.Description,
		Amount:         r.Amount,
		DueDate:        r.DueDate,
		OriginID:       r.OriginID,
		DocumentNumber: r.DocumentNumber,
		Notes:          r.Notes,
	}
	if r.OriginType != nil {
		t := finance.OriginType(*r.OriginType)
		u.OriginType = &t
	}
	return u
}

// SettleRequest pays a payable or receives a receivable.
// A missing settlement date means now.
type SettleRequest struct {
	SettlementDate *time.Time `json:"settlement_date"`
	Notes          string     `json:"notes"`
}

// ObligationListFilter filters payable and receivable listings and summaries
type ObligationListFilter struct {
	BranchID  *uuid.UUID `form:"branch_id"`
	Status    string     `form:"status"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// dueRange turns the filter dates into an inclusive range; the end date covers its whole day
func (f ObligationListFilter) dueRange() shared.DateRange {
	r := shared.DateRange{From: f.StartDate}
	if f.EndDate != nil {
		end := *f.EndDate
		if end.Hour() == 0 && end.Minute() == 0 && end.Second() == 0 && end.Nanosecond() == 0 {
			end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		r.To = &end
	}
	return r
}

// AccountPayableResponse represents an account payable in API responses
type AccountPayableResponse struct {
	ID                     uuid.UUID       `json:"id"`
	CompanyID              uuid.UUID       `json:"company_id"`
	BranchID               uuid.UUID       `json:"branch_id"`
	Description            string          `json:"description"`
	Amount                 decimal.Decimal `json:"amount"`
	DueDate                time.Time       `json:"due_date"`
	Status                 string          `json:"status"`
	OriginType             string          `json:"origin_type,omitempty"`
	OriginID               *uuid.UUID      `json:"origin_id,omitempty"`
	DocumentNumber         string          `json:"document_number,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
	FinancialTransactionID *uuid.UUID      `json:"financial_transaction_id,omitempty"`
	PaymentDate            *time.Time      `json:"payment_date,omitempty"`
	CreatedBy              *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func toPayableResponse(ap *finance.AccountPayable) *AccountPayableResponse {
	return &AccountPayableResponse{
		ID:                     ap.ID,
		CompanyID:              ap.CompanyID,
		BranchID:               ap.BranchID,
		Description:            ap.Description,
		Amount:                 ap.Amount,
		DueDate:                ap.DueDate,
		Status:                 ap.Status.String(),
		OriginType:             ap.Origin.Type.String(),
		OriginID:               ap.Origin.ID,
		DocumentNumber:         ap.DocumentNumber,
		Notes:                  ap.Notes,
		FinancialTransactionID: ap.FinancialTransactionID,
		PaymentDate:            ap.PaymentDate,
		CreatedBy:              ap.CreatedBy,
		CreatedAt:              ap.CreatedAt,
		UpdatedAt:              ap.UpdatedAt,
	}
}

// AccountReceivableResponse represents an account receivable in API responses
type AccountReceivableResponse struct {
	ID                     uuid.UUID       `json:"id"`
	CompanyID              uuid.UUID       `json:"company_id"`
	BranchID               uuid.UUID       `json:"branch_id"`
	Description            string          `json:"description"`
	Amount                 decimal.Decimal `json:"amount"`
	DueDate                time.Time       `json:"due_date"`
	Status                 string          `json:"status"`
	OriginType             string          `json:"origin_type,omitempty"`
	OriginID               *uuid.UUID      `json:"origin_id,omitempty"`
	DocumentNumber         string          `json:"document_number,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
	FinancialTransactionID *uuid.UUID      `json:"financial_transaction_id,omitempty"`
	ReceiptDate            *time.Time      `json:"receipt_date,omitempty"`
	CreatedBy              *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func toReceivableResponse(ar *finance.AccountReceivable) *AccountReceivableResponse {
	return &AccountReceivableResponse{
		ID:                     ar.ID,
		CompanyID:              ar.CompanyID,
		BranchID:               ar.BranchID,
		Description:            ar.Description,
		Amount:                 ar.Amount,
		DueDate:                ar.DueDate,
		Status:                 ar.Status.String(),
		OriginType:             ar.Origin.Type.String(),
		OriginID:               ar.Origin.ID,
		DocumentNumber:         ar.DocumentNumber,
		Notes:                  ar.Notes,
		FinancialTransactionID: ar.FinancialTransactionID,
		ReceiptDate:            ar.ReceiptDate,
		CreatedBy:              ar.CreatedBy,
		CreatedAt:              ar.CreatedAt,
		UpdatedAt:              ar.UpdatedAt,
	}
}

// PayableSummaryResponse is a page of payables plus totals for all three status buckets
type PayableSummaryResponse struct {
	*shared.Paginated[AccountPayableResponse]
	Totals finance.StatusTotals `json:"totals"`
}

// ReceivableSummaryResponse is a page of receivables plus totals for all three status buckets
type ReceivableSummaryResponse struct {
	*shared.Paginated[AccountReceivableResponse]
	Totals finance.StatusTotals `json:"totals"`
}

// SettlementResponse is returned by pay and receive
type SettlementResponse[T any] struct {
	Record      *T                            `json:"record"`
	Transaction *FinancialTransactionResponse `json:"transaction"`
}

// ===================== Financial transactions =====================

// CreateTransactionRequest records a realised cash movement
type CreateTransactionRequest struct {
	Type            string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"max=500"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	BranchID        *uuid.UUID      `json:"branch_id"`
	OriginType      string          `json:"origin_type" binding:"omitempty,oneof=MAINTENANCE_ORDER STOCK_MOVEMENT PAYROLL MANUAL"`
	OriginID        *uuid.UUID      `json:"origin_id"`
	DocumentNumber  string          `json:"document_number" binding:"max=100"`
	Notes           string          `json:"notes"`
}

// UpdateTransactionRequest is a partial update of a financial transaction
type UpdateTransactionRequest struct {
	Type            *string          `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Amount          *decimal.Decimal `json:"amount"`
	Description     *string          `json:"description" binding:"omitempty,max=500"`
	TransactionDate *time.Time       `json:"transaction_date"`
	BranchID        *uuid.UUID       `json:"branch_id"`
	OriginType      *string          `json:"origin_type" binding:"omitempty,oneof=MAINTENANCE_ORDER STOCK_MOVEMENT PAYROLL MANUAL"`
	OriginID        *uuid.UUID       `json:"origin_id"`
	DocumentNumber  *string          `json:"document_number" binding:"omitempty,max=100"`
	Notes           *string          `json:"notes"`
}

func (r UpdateTransactionRequest) toDomain() finance.TransactionUpdate {
	u := finance.TransactionUpdate{
		BranchID:        r.BranchID,
		Amount:          r.Amount,
		Description:     r.Description,
		TransactionDate: r.TransactionDate,
		OriginID:        r.OriginID,
		DocumentNumber:  r.DocumentNumber,
		Notes:           r.Notes,
	}
	if r.Type != nil {
		t := finance.TransactionType(*r.Type)
		u.Type = &t
	}
	if r.OriginType != nil {
		t := finance.OriginType(*r.OriginType)
		u.OriginType = &t
	}
	return u
}

// TransactionListFilter filters financial transaction listings
type TransactionListFilter struct {
	BranchID  *uuid.UUID `form:"branch_id"`
	Type      string     `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	OrderBy   string     `form:"order_by"`
	OrderDir  string     `form:"order_dir"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// FinancialTransactionResponse represents a financial transaction in API responses
type FinancialTransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	CompanyID       uuid.UUID       `json:"company_id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	Reference       string          `json:"reference"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	OriginType      string          `json:"origin_type,omitempty"`
	OriginID        *uuid.UUID      `json:"origin_id,omitempty"`
	DocumentNumber  string          `json:"document_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func toTransactionResponse(ft *finance.FinancialTransaction) *FinancialTransactionResponse {
	return &FinancialTransactionResponse{
		ID:              ft.ID,
		CompanyID:       ft.CompanyID,
		BranchID:        ft.BranchID,
		Reference:       ft.Reference,
		Type:            ft.Type.String(),
		Amount:          ft.Amount,
		Description:     ft.Description,
		TransactionDate: ft.TransactionDate,
		OriginType:      ft.Origin.Type.String(),
		OriginID:        ft.Origin.ID,
		DocumentNumber:  ft.DocumentNumber,
		Notes:           ft.Notes,
		CreatedBy:       ft.CreatedBy,
		CreatedAt:       ft.CreatedAt,
		UpdatedAt:       ft.UpdatedAt,
	}
}

// ===================== Wallet =====================

// AdjustBalanceRequest overrides a branch balance
type AdjustBalanceRequest struct {
	BranchID       uuid.UUID       `json:"branch_id" binding:"required"`
	NewBalance     decimal.Decimal `json:"new_balance"`
	AdjustmentType string          `json:"adjustment_type" binding:"required,oneof=MANUAL_ADJUSTMENT INITIAL_BALANCE CORRECTION"`
	Reason         string          `json:"reason" binding:"max=500"`
}

// WalletBalanceResponse is the current balance of a branch
type WalletBalanceResponse struct {
	BranchID       uuid.UUID       `json:"branch_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AdjustmentListFilter filters the balance adjustment history
type AdjustmentListFilter struct {
	BranchID *uuid.UUID `form:"branch_id"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// BalanceAdjustmentResponse is one entry of the adjustment history
type BalanceAdjustmentResponse struct {
	ID              uuid.UUID       `json:"id"`
	BranchID        uuid.UUID       `json:"branch_id"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	Difference      decimal.Decimal `json:"difference"`
	AdjustmentType  string          `json:"adjustment_type"`
	Reason          string          `json:"reason,omitempty"`
	ActorID         uuid.UUID       `json:"actor_id"`
	CreatedAt       time.Time       `json:"created_at"`
}

func toAdjustmentResponse(a *finance.BalanceAdjustment) BalanceAdjustmentResponse {
	return BalanceAdjustmentResponse{
		ID:              a.ID,
		BranchID:        a.BranchID,
		PreviousBalance: a.PreviousBalance,
		NewBalance:      a.NewBalance,
		Difference:      a.Difference(),
		AdjustmentType:  a.AdjustmentType.String(),
		Reason:          a.Reason,
		ActorID:         a.ActorID,
		CreatedAt:       a.CreatedAt,
	}
}

// WalletSummaryRequest selects the branch and month of a wallet summary.
// Zero month or year means the current one.
type WalletSummaryRequest struct {
	BranchID *uuid.UUID `form:"branch_id"`
	Month    int        `form:"month" binding:"omitempty,min=1,max=12"`
	Year     int        `form:"year" binding:"omitempty,min=1900,max=9999"`
}
