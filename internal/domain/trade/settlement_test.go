package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeriveSettlement(t *testing.T) {
	tests := []struct {
		name        string
		grand       string
		paid        string
		allowChange bool
		due         string
		change      string
		status      PaymentStatus
	}{
		{"fully paid", "900", "900", false, "0", "0", PaymentStatusPaid},
		{"partial", "520", "200", false, "320", "0", PaymentStatusPartial},
		{"unpaid", "520", "0", false, "520", "0", PaymentStatusUnpaid},
		{"zero total is unpaid", "0", "0", false, "0", "0", PaymentStatusUnpaid},
		{"sale overpayment becomes change", "900", "1000", true, "0", "100", PaymentStatusPaid},
		{"overpayment without change keeps negative due", "900", "1000", false, "-100", "0", PaymentStatusPaid},
		{"sale exact payment has no change", "900", "900", true, "0", "0", PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DeriveSettlement(d(tt.grand), d(tt.paid), tt.allowChange)
			assert.True(t, d(tt.due).Equal(s.Due), "due: want %s got %s", tt.due, s.Due)
			assert.True(t, d(tt.change).Equal(s.Change), "change: want %s got %s", tt.change, s.Change)
			assert.Equal(t, tt.status, s.Status)
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCash, PaymentMethodCard, PaymentMethodMobile, PaymentMethodBank, PaymentMethodCredit} {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, PaymentMethod("cheque").IsValid())
}
