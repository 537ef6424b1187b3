package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"printstore/internal/domain"
	"printstore/internal/mocks"
	"printstore/internal/pricing"
)

// noShippingPolicy keeps the arithmetic readable: the discount base is the
// item subtotal.
func noShippingPolicy() pricing.Policy {
	return pricing.Policy{
		FlatShippingFee: decimal.Zero,
		TaxRate:         decimal.RequireFromString("0.06"),
		DiscountBase:    pricing.DiscountOnTaxBase,
	}
}

func TestVoucherResolver(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	base := dec("100")

	tests := []struct {
		name          string
		voucher       *domain.Voucher
		expectedError error
		discount      string
	}{
		{name: "active voucher", voucher: CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now.Add(time.Hour), true), discount: "10"},
		{name: "expires exactly now", voucher: CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now, true), expectedError: ErrVoucherExpired},
		{name: "inactive", voucher: CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now.Add(time.Hour), false), expectedError: ErrVoucherInactive},
		{name: "missing", voucher: nil, expectedError: ErrVoucherNotFound},
		{name: "rate above one is clamped", voucher: CreateMockVoucher(TestVoucherID, "ALL", 1.5, now.Add(time.Hour), true), discount: "100"},
		{name: "negative rate is clamped", voucher: CreateMockVoucher(TestVoucherID, "NEG", -0.2, now.Add(time.Hour), true), discount: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockVoucherRepository)
			if tt.voucher == nil {
				repo.On("FindByCode", mock.Anything, "SALE10").Return(nil, nil)
			} else {
				repo.On("FindByCode", mock.Anything, "SALE10").Return(tt.voucher, nil)
			}

			resolver := NewVoucherResolver()
			resolver.now = func() time.Time { return now }
			applied, err := resolver.ByCode(context.Background(), repo, "SALE10", base)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TestVoucherID, applied.VoucherID)
			assert.True(t, dec(tt.discount).Equal(applied.DiscountAmount), applied.DiscountAmount.String())
		})
	}
}

func TestOrderTotalEngine_Apply(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	lines := []domain.OrderItem{CreateMockItem("item-1", TestOrderID, TestVariantID, 1, "100")}

	t.Run("applies a code against the tax base", func(t *testing.T) {
		repo := new(mocks.MockVoucherRepository)
		repo.On("FindByCode", mock.Anything, "SALE10").
			Return(CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now.Add(time.Hour), true), nil)

		order := CreateMockOrder(TestOrderID, TestUserID, domain.StatusPending)
		engine := newTestEngine(noShippingPolicy(), now)
		require.NoError(t, engine.Apply(context.Background(), repo, order, lines, ApplyVoucher("SALE10")))

		assert.True(t, dec("100").Equal(order.SubTotal))
		assert.True(t, dec("6").Equal(order.TaxAmount))
		assert.True(t, dec("10").Equal(order.DiscountAmount))
		assert.True(t, dec("96").Equal(order.TotalAmount))
		require.NotNil(t, order.VoucherID)
		assert.Equal(t, TestVoucherID, *order.VoucherID)
	})

	t.Run("kept voucher keeps its frozen discount while the base is unchanged", func(t *testing.T) {
		repo := new(mocks.MockVoucherRepository)

		order := CreateMockOrder(TestOrderID, TestUserID, domain.StatusPending)
		order.VoucherID = strPtr(TestVoucherID)
		order.SubTotal = dec("100")
		order.TaxAmount = dec("6")
		order.DiscountAmount = dec("10")
		order.TotalAmount = dec("96")

		engine := newTestEngine(noShippingPolicy(), now)
		require.NoError(t, engine.Apply(context.Background(), repo, order, lines, KeepVoucher()))

		assert.True(t, dec("10").Equal(order.DiscountAmount))
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("kept voucher is revalidated when the base moves", func(t *testing.T) {
		repo := new(mocks.MockVoucherRepository)
		repo.On("FindByID", mock.Anything, TestVoucherID).
			Return(CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now.Add(time.Hour), true), nil)

		order := CreateMockOrder(TestOrderID, TestUserID, domain.StatusPending)
		order.VoucherID = strPtr(TestVoucherID)
		order.SubTotal = dec("100")
		order.DiscountAmount = dec("10")

		doubled := []domain.OrderItem{CreateMockItem("item-1", TestOrderID, TestVariantID, 2, "100")}
		engine := newTestEngine(noShippingPolicy(), now)
		require.NoError(t, engine.Apply(context.Background(), repo, order, doubled, KeepVoucher()))

		assert.True(t, dec("20").Equal(order.DiscountAmount))
		assert.True(t, dec("192").Equal(order.TotalAmount))
		repo.AssertExpectations(t)
	})

	t.Run("kept voucher that expired blocks the recompute", func(t *testing.T) {
		repo := new(mocks.MockVoucherRepository)
		repo.On("FindByID", mock.Anything, TestVoucherID).
			Return(CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now.Add(-time.Hour), true), nil)

		order := CreateMockOrder(TestOrderID, TestUserID, domain.StatusPending)
		order.VoucherID = strPtr(TestVoucherID)
		order.SubTotal = dec("50")

		engine := newTestEngine(noShippingPolicy(), now)
		err := engine.Apply(context.Background(), repo, order, lines, KeepVoucher())
		assert.ErrorIs(t, err, ErrVoucherExpired)
	})

	t.Run("subtotal discount base ignores shipping", func(t *testing.T) {
		repo := new(mocks.MockVoucherRepository)
		repo.On("FindByCode", mock.Anything, "SALE10").
			Return(CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now.Add(time.Hour), true), nil)

		policy := pricing.DefaultPolicy()
		policy.DiscountBase = pricing.DiscountOnSubTotal
		order := CreateMockOrder(TestOrderID, TestUserID, domain.StatusPending)
		engine := newTestEngine(policy, now)
		require.NoError(t, engine.Apply(context.Background(), repo, order, lines, ApplyVoucher("SALE10")))

		assert.True(t, dec("10").Equal(order.DiscountAmount))
		assert.True(t, dec("50000").Equal(order.ShippingFee))
	})
}

func TestVoucherFromCode(t *testing.T) {
	assert.True(t, VoucherFromCode(nil).IsKeep())
	assert.True(t, VoucherFromCode(strPtr("")).IsKeep())
	assert.False(t, VoucherFromCode(strPtr("SALE10")).IsKeep())
}
