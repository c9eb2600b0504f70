package finance

import (
	"sort"
	"time"

	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is a calendar month
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// NewPeriod validates a month/year pair
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, shared.NewValidationError("month must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return Period{}, shared.NewValidationError("year is out of range")
	}
	return Period{Month: month, Year: year}, nil
}

// CurrentPeriod returns the period containing t
func CurrentPeriod(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// Start is the first instant of the month in loc
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
}

// End is the last instant of the month in loc
func (p Period) End(loc *time.Location) time.Time {
	return p.Start(loc).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Range returns the period as an inclusive date range
func (p Period) Range(loc *time.Location) shared.DateRange {
	start, end := p.Start(loc), p.End(loc)
	return shared.DateRange{From: &start, To: &end}
}

// PendingScope selects which pending obligations feed the summary totals
type PendingScope string

const (
	// PendingScopePeriod counts pending records due inside the period
	PendingScopePeriod PendingScope = "period"
	// PendingScopeAll counts every pending record regardless of due date
	PendingScopeAll PendingScope = "all"
)

// IsValid checks if the pending scope is valid
func (s PendingScope) IsValid() bool {
	return s == PendingScopePeriod || s == PendingScopeAll
}

// MovementType tags a summary movement
type MovementType string

const (
	MovementTypePayable    MovementType = "payable"
	MovementTypeReceivable MovementType = "receivable"
)

// Movement is one payable or receivable touched in the summary period
type Movement struct {
	ID             uuid.UUID       `json:"id"`
	Type           MovementType    `json:"type"`
	Status         string          `json:"status"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	DueDate        time.Time       `json:"due_date"`
	SettlementDate *time.Time      `json:"settlement_date,omitempty"`
	OriginType     OriginType      `json:"origin_type,omitempty"`
}

// PayableMovement converts a payable to a movement
func PayableMovement(ap *AccountPayable) Movement {
	return Movement{
		ID:             ap.ID,
		Type:           MovementTypePayable,
		Status:         ap.Status.String(),
		Description:    ap.Description,
		Amount:         ap.Amount,
		DueDate:        ap.DueDate,
		SettlementDate: ap.PaymentDate,
		OriginType:     ap.Origin.Type,
	}
}

// ReceivableMovement converts a receivable to a movement
func ReceivableMovement(ar *AccountReceivable) Movement {
	return Movement{
		ID:             ar.ID,
		Type:           MovementTypeReceivable,
		Status:         ar.Status.String(),
		Description:    ar.Description,
		Amount:         ar.Amount,
		DueDate:        ar.DueDate,
		SettlementDate: ar.ReceiptDate,
		OriginType:     ar.Origin.Type,
	}
}

// WalletSummary is the dashboard projection for a branch (or all branches) and period
type WalletSummary struct {
	BranchID           *uuid.UUID      `json:"branch_id,omitempty"`
	Period             Period          `json:"period"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	TotalIncome        decimal.Decimal `json:"total_income"`
	TotalExpense       decimal.Decimal `json:"total_expense"`
	PeriodProfit       decimal.Decimal `json:"period_profit"`
	PendingPayables    decimal.Decimal `json:"pending_payables"`
	PendingReceivables decimal.Decimal `json:"pending_receivables"`
	ProjectedBalance   decimal.Decimal `json:"projected_balance"`
	Movements          []Movement      `json:"movements"`
}

// NewWalletSummary derives profit and projected balance from the raw aggregates
// and orders movements by due date
func NewWalletSummary(
	branchID *uuid.UUID,
	period Period,
	currentBalance, totalIncome, totalExpense, pendingPayables, pendingReceivables decimal.Decimal,
	movements []Movement,
) *WalletSummary {
	if movements == nil {
		movements = make([]Movement, 0)
	}
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].DueDate.Before(movements[j].DueDate)
	})

	return &WalletSummary{
		BranchID:           branchID,
		Period:             period,
		CurrentBalance:     currentBalance,
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		PeriodProfit:       totalIncome.Sub(totalExpense),
		PendingPayables:    pendingPayables,
		PendingReceivables: pendingReceivables,
		ProjectedBalance:   currentBalance.Add(pendingReceivables).Sub(pendingPayables),
		Movements:          movements,
	}
}
