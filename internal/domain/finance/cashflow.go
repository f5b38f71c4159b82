package finance

import (
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyCashFlow is the cash position of one shop for one calendar day.
//
// ClosingBalance always equals OpeningBalance + TotalIncome - TotalExpense.
// Once closed, the row is never recomputed.
type DailyCashFlow struct {
	shared.BaseEntity
	TenantID       uuid.UUID       `gorm:"type:uuid;not null"`
	Date           time.Time       `gorm:"type:date;not null"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalIncome    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalExpense   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ClosingBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
	IsClosed       bool            `gorm:"not null;default:false"`
	ClosedBy       *uuid.UUID      `gorm:"type:uuid"`
	ClosedAt       *time.Time
}

// TableName returns the table name for GORM
func (DailyCashFlow) TableName() string {
	return "daily_cash_flows"
}

// DayActivity is the money that moved on one day
type DayActivity struct {
	SalesReceived    decimal.Decimal
	PurchasesPaid    decimal.Decimal
	ExpensesIncurred decimal.Decimal
}

// Income is what the shop received
func (a DayActivity) Income() decimal.Decimal {
	return a.SalesReceived
}

// Expense is what the shop paid out
func (a DayActivity) Expense() decimal.Decimal {
	return a.PurchasesPaid.Add(a.ExpensesIncurred)
}

// NewDailyCashFlow creates an open, empty row for a day
func NewDailyCashFlow(tenantID uuid.UUID, date time.Time) *DailyCashFlow {
	return &DailyCashFlow{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		Date:           Day(date),
		OpeningBalance: decimal.Zero,
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		ClosingBalance: decimal.Zero,
	}
}

// Recompute derives the row from the opening balance and the day's activity.
// It returns false without touching a closed row.
func (c *DailyCashFlow) Recompute(opening decimal.Decimal, activity DayActivity) bool {
	if c.IsClosed {
		return false
	}
	c.OpeningBalance = opening
	c.TotalIncome = activity.Income()
	c.TotalExpense = activity.Expense()
	c.ClosingBalance = opening.Add(c.TotalIncome).Sub(c.TotalExpense)
	c.Touch()
	return true
}

// Close freezes the row
func (c *DailyCashFlow) Close(closedBy uuid.UUID, notes string) error {
	if c.IsClosed {
		return shared.NewDomainError(shared.CodeDayClosed, "Cash flow for "+c.Date.Format("2006-01-02")+" is already closed")
	}
	now := time.Now().UTC()
	c.IsClosed = true
	c.ClosedAt = &now
	if closedBy != uuid.Nil {
		c.ClosedBy = &closedBy
	}
	if notes != "" {
		c.Notes = notes
	}
	c.Touch()
	return nil
}
