package trade

import (
	"testing"
	"time"

	"github.com/dokan/papershop/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseDraft(paid string) PurchaseDraft {
	return PurchaseDraft{
		Lines: []PurchaseLine{
			{ProductID: uuid.New(), ProductName: "A4 80gsm ream", Quantity: d("10"), UnitPrice: d("50")},
		},
		ShippingCost: d("20"),
		PaidAmount:   d(paid),
		Date:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewPurchase_Scenario(t *testing.T) {
	tenantID := uuid.New()
	p, err := NewPurchase(tenantID, uuid.New(), purchaseDraft("200"))
	require.NoError(t, err)

	assert.Equal(t, tenantID, p.TenantID)
	assert.Equal(t, "500", p.Subtotal.String())
	assert.Equal(t, "520", p.GrandTotal.String())
	assert.Equal(t, "320", p.DueAmount.String())
	assert.Equal(t, PaymentStatusPartial, p.PaymentStatus)
	assert.Equal(t, PaymentMethodCash, p.PaymentMethod)
	require.Len(t, p.Items, 1)
	assert.Equal(t, p.ID, p.Items[0].PurchaseID)
	assert.Equal(t, "500", p.Items[0].Total.String())
	assert.NotNil(t, p.CreatedBy)
}

func TestNewPurchase_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PurchaseDraft)
	}{
		{"no lines", func(dr *PurchaseDraft) { dr.Lines = nil }},
		{"negative paid", func(dr *PurchaseDraft) { dr.PaidAmount = d("-1") }},
		{"negative shipping", func(dr *PurchaseDraft) { dr.ShippingCost = d("-5") }},
		{"discount above subtotal", func(dr *PurchaseDraft) { dr.Discount = d("501") }},
		{"negative price", func(dr *PurchaseDraft) { dr.Lines[0].UnitPrice = d("-1") }},
		{"zero quantity", func(dr *PurchaseDraft) { dr.Lines[0].Quantity = decimal.Zero }},
		{"missing product", func(dr *PurchaseDraft) { dr.Lines[0].ProductID = uuid.Nil }},
		{"bad method", func(dr *PurchaseDraft) { dr.PaymentMethod = "barter" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := purchaseDraft("0")
			tt.mutate(&draft)
			_, err := NewPurchase(uuid.New(), uuid.New(), draft)
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err), err.Error())
		})
	}
}

func TestNewPurchase_PaidAboveGrandTotal(t *testing.T) {
	p, err := NewPurchase(uuid.New(), uuid.New(), purchaseDraft("600"))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Equal(t, shared.CodeOverpayment, shared.CodeOf(err))

	p, err = NewPurchase(uuid.New(), uuid.New(), purchaseDraft("520"))
	require.NoError(t, err)
	assert.True(t, p.DueAmount.IsZero())
	assert.Equal(t, PaymentStatusPaid, p.PaymentStatus)
}

func TestPurchase_RecordPayment(t *testing.T) {
	p, err := NewPurchase(uuid.New(), uuid.New(), purchaseDraft("200"))
	require.NoError(t, err)
	before := p.PaidAmount
	actor := uuid.New()

	payment, err := p.RecordPayment(PaymentInput{Amount: d("120"), Method: PaymentMethodBank, Reference: "TRX-1", ActorID: actor})
	require.NoError(t, err)

	assert.True(t, p.PaidAmount.Equal(before.Add(d("120"))))
	assert.Equal(t, "200", p.DueAmount.String())
	assert.Equal(t, PaymentStatusPartial, p.PaymentStatus)
	assert.Equal(t, p.ID, payment.PurchaseID)
	assert.Equal(t, p.TenantID, payment.TenantID)
	assert.Equal(t, PaymentMethodBank, payment.PaymentMethod)
	require.NotNil(t, payment.PaidBy)
	assert.Equal(t, actor, *payment.PaidBy)

	_, err = p.RecordPayment(PaymentInput{Amount: d("200")})
	require.NoError(t, err)
	assert.True(t, p.DueAmount.IsZero())
	assert.Equal(t, PaymentStatusPaid, p.PaymentStatus)
}

func TestPurchase_RecordPaymentRejectsOverpayment(t *testing.T) {
	p, err := NewPurchase(uuid.New(), uuid.New(), purchaseDraft("200"))
	require.NoError(t, err)

	_, err = p.RecordPayment(PaymentInput{Amount: d("320.01")})
	require.Error(t, err)
	assert.Equal(t, shared.CodeOverpayment, shared.CodeOf(err))
	assert.Equal(t, "200", p.PaidAmount.String())
	assert.Equal(t, "320", p.DueAmount.String())
}

func TestPurchase_RecordPaymentRejectsNonPositive(t *testing.T) {
	p, err := NewPurchase(uuid.New(), uuid.New(), purchaseDraft("0"))
	require.NoError(t, err)

	for _, amount := range []string{"0", "-10"} {
		_, err := p.RecordPayment(PaymentInput{Amount: d(amount)})
		assert.Equal(t, shared.CodeInvalidAmount, shared.CodeOf(err))
	}
}
