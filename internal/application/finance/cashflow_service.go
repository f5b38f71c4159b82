package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/dokan/papershop/internal/domain/finance"
	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Locker runs fn while holding a lock on key. Implementations may be
// process-local or shared through Redis.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// CashFlowService rolls up and closes daily cash flow
type CashFlowService struct {
	cashFlowRepo finance.CashFlowRepository
	ledger       finance.LedgerReader
	locker       Locker
	logger       *zap.Logger
	now          func() time.Time
}

// NewCashFlowService creates a new CashFlowService
func NewCashFlowService(cashFlowRepo finance.CashFlowRepository, ledger finance.LedgerReader, locker Locker) *CashFlowService {
	return &CashFlowService{
		cashFlowRepo: cashFlowRepo,
		ledger:       ledger,
		locker:       locker,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
}

// SetLogger sets the logger
func (s *CashFlowService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func lockKey(tenantID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("cashflow:%s:%s", tenantID, day.Format(dateLayout))
}

func (s *CashFlowService) day(date time.Time) time.Time {
	if date.IsZero() {
		date = s.now()
	}
	return finance.Day(date)
}

// GetDailyCashFlow returns the cash flow of one day. An open day is
// recomputed from its opening balance and the day's activity on every call.
// A closed day is returned as stored.
func (s *CashFlowService) GetDailyCashFlow(ctx context.Context, tenantID uuid.UUID, date time.Time) (*CashFlowResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	day := s.day(date)

	var row *finance.DailyCashFlow
	err := s.locker.WithLock(ctx, lockKey(tenantID, day), func(ctx context.Context) error {
		var err error
		row, err = s.rollup(ctx, tenantID, day)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToCashFlowResponse(row)
	return &resp, nil
}

// rollup must run under the day lock
func (s *CashFlowService) rollup(ctx context.Context, tenantID uuid.UUID, day time.Time) (*finance.DailyCashFlow, error) {
	row, err := s.cashFlowRepo.FindByDate(ctx, tenantID, day)
	if err != nil {
		return nil, fmt.Errorf("load cash flow: %w", err)
	}
	if row != nil && row.IsClosed {
		return row, nil
	}

	opening, err := s.openingBalance(ctx, tenantID, day)
	if err != nil {
		return nil, err
	}
	activity, err := s.ledger.DayActivity(ctx, tenantID, day)
	if err != nil {
		return nil, fmt.Errorf("day activity: %w", err)
	}

	if row != nil {
		row.Recompute(opening, activity)
		if err := s.cashFlowRepo.Save(ctx, row); err != nil {
			return nil, fmt.Errorf("save cash flow: %w", err)
		}
		return row, nil
	}

	row = finance.NewDailyCashFlow(tenantID, day)
	row.Recompute(opening, activity)
	if err := s.cashFlowRepo.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("upsert cash flow: %w", err)
	}
	// another writer may own the stored row
	stored, err := s.cashFlowRepo.FindByDate(ctx, tenantID, day)
	if err != nil {
		return nil, fmt.Errorf("reload cash flow: %w", err)
	}
	if stored == nil {
		return row, nil
	}
	return stored, nil
}

// openingBalance carries the previous calendar day's closing forward. A day
// without a row opens at zero even if older rows exist.
func (s *CashFlowService) openingBalance(ctx context.Context, tenantID uuid.UUID, day time.Time) (decimal.Decimal, error) {
	prev, err := s.cashFlowRepo.FindByDate(ctx, tenantID, day.AddDate(0, 0, -1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("previous cash flow: %w", err)
	}
	if prev == nil {
		return decimal.Zero, nil
	}
	return prev.ClosingBalance, nil
}

// CloseDay recomputes a day one last time and freezes it
func (s *CashFlowService) CloseDay(ctx context.Context, tenantID, userID uuid.UUID, date time.Time, notes string) (*CashFlowResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	day := s.day(date)
	if day.After(s.day(time.Time{})) {
		return nil, shared.NewValidationError(shared.CodeInvalidInput, "Cannot close a day in the future")
	}

	var row *finance.DailyCashFlow
	err := s.locker.WithLock(ctx, lockKey(tenantID, day), func(ctx context.Context) error {
		var err error
		if row, err = s.rollup(ctx, tenantID, day); err != nil {
			return err
		}
		if err := row.Close(userID, notes); err != nil {
			return err
		}
		return s.cashFlowRepo.Save(ctx, row)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cash flow day closed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("date", day.Format(dateLayout)),
		zap.String("closing_balance", row.ClosingBalance.StringFixed(2)),
	)
	resp := ToCashFlowResponse(row)
	return &resp, nil
}

// List returns the stored rows of an inclusive date range. Days that were
// never rolled up are absent.
func (s *CashFlowService) List(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]CashFlowResponse, error) {
	ctx = shared.WithTenantID(ctx, tenantID)
	period, err := finance.NewPeriod(from, to, s.now())
	if err != nil {
		return nil, err
	}
	rows, err := s.cashFlowRepo.FindRange(ctx, tenantID, period)
	if err != nil {
		return nil, err
	}
	out := make([]CashFlowResponse, len(rows))
	for i := range rows {
		out[i] = ToCashFlowResponse(&rows[i])
	}
	return out, nil
}
