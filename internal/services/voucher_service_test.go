package services

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	"printstore/internal/mocks"
	"printstore/internal/repository"
)

func TestVoucherService_CreateVoucher(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(24 * time.Hour)

	tests := []struct {
		name          string
		actor         auth.Actor
		input         CreateVoucherInput
		setupMocks    func(*mocks.MockStore)
		expectedError error
	}{
		{
			name:  "admin creates voucher",
			actor: AdminActor(),
			input: CreateVoucherInput{Code: " SALE10 ", Discount: 0.1, ExpiresAt: later},
			setupMocks: func(store *mocks.MockStore) {
				store.VoucherRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *domain.Voucher) bool {
					return v.Code == "SALE10" && v.IsActive
				})).Return(nil)
			},
		},
		{
			name:          "customer",
			actor:         CustomerActor(),
			input:         CreateVoucherInput{Code: "SALE10", Discount: 0.1, ExpiresAt: later},
			setupMocks:    func(*mocks.MockStore) {},
			expectedError: ErrAdminOnly,
		},
		{
			name:          "discount above one",
			actor:         AdminActor(),
			input:         CreateVoucherInput{Code: "SALE10", Discount: 1.01, ExpiresAt: later},
			setupMocks:    func(*mocks.MockStore) {},
			expectedError: ErrInvalidDiscount,
		},
		{
			name:          "nan discount",
			actor:         AdminActor(),
			input:         CreateVoucherInput{Code: "SALE10", Discount: math.NaN(), ExpiresAt: later},
			setupMocks:    func(*mocks.MockStore) {},
			expectedError: ErrInvalidDiscount,
		},
		{
			name:          "expiry equal to now",
			actor:         AdminActor(),
			input:         CreateVoucherInput{Code: "SALE10", Discount: 0.1, ExpiresAt: now},
			setupMocks:    func(*mocks.MockStore) {},
			expectedError: ErrInvalidExpiry,
		},
		{
			name:          "code too long",
			actor:         AdminActor(),
			input:         CreateVoucherInput{Code: strings.Repeat("X", 51), Discount: 0.1, ExpiresAt: later},
			setupMocks:    func(*mocks.MockStore) {},
			expectedError: ErrInvalidCode,
		},
		{
			name:  "duplicate code",
			actor: AdminActor(),
			input: CreateVoucherInput{Code: "SALE10", Discount: 0.1, ExpiresAt: later},
			setupMocks: func(store *mocks.MockStore) {
				store.VoucherRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Voucher")).Return(repository.ErrDuplicateKey)
			},
			expectedError: ErrVoucherCodeTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			tt.setupMocks(store)

			service := NewVoucherService(store, zap.NewNop())
			service.now = func() time.Time { return now }
			v, err := service.CreateVoucher(context.Background(), tt.actor, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, v)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, v.ID)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestVoucherService_UpdateVoucher(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	inactive := false

	store := mocks.NewMockStore()
	store.VoucherRepo.On("FindByID", mock.Anything, TestVoucherID).
		Return(CreateMockVoucher(TestVoucherID, "SALE10", 0.1, now.Add(time.Hour), true), nil)
	store.VoucherRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Voucher")).Return(nil)

	service := NewVoucherService(store, zap.NewNop())
	service.now = func() time.Time { return now }
	v, err := service.UpdateVoucher(context.Background(), AdminActor(), TestVoucherID, UpdateVoucherInput{IsActive: &inactive})

	require.NoError(t, err)
	assert.False(t, v.IsActive)
	store.AssertExpectations(t)
}

func TestVoucherService_UpdateExpiredVoucher(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	inactive := false
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name          string
		input         UpdateVoucherInput
		expectedError error
	}{
		{name: "deactivate without touching expiry", input: UpdateVoucherInput{IsActive: &inactive}},
		{name: "moving expiry into the past", input: UpdateVoucherInput{ExpiresAt: &past}, expectedError: ErrInvalidExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mocks.NewMockStore()
			store.VoucherRepo.On("FindByID", mock.Anything, TestVoucherID).
				Return(CreateMockVoucher(TestVoucherID, "OLD", 0.1, now.Add(-time.Hour), true), nil)
			if tt.expectedError == nil {
				store.VoucherRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Voucher")).Return(nil)
			}

			service := NewVoucherService(store, zap.NewNop())
			service.now = func() time.Time { return now }
			v, err := service.UpdateVoucher(context.Background(), AdminActor(), TestVoucherID, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				store.VoucherRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.False(t, v.IsActive)
			}
			store.AssertExpectations(t)
		})
	}
}

func TestVoucherService_ListAndGet(t *testing.T) {
	active := false
	store := mocks.NewMockStore()
	store.VoucherRepo.On("List", mock.Anything, repository.VoucherFilter{Active: &active}).Return([]domain.Voucher{}, nil)
	store.VoucherRepo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	service := NewVoucherService(store, zap.NewNop())

	_, err := service.ListVouchers(context.Background(), &active)
	require.NoError(t, err)

	_, err = service.GetVoucher(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrVoucherNotFound)
	store.AssertExpectations(t)
}

func TestVoucherService_DeleteRequiresAdmin(t *testing.T) {
	store := mocks.NewMockStore()
	service := NewVoucherService(store, zap.NewNop())

	_, err := service.DeleteVoucher(context.Background(), CustomerActor(), TestVoucherID)
	assert.ErrorIs(t, err, ErrAdminOnly)
	store.VoucherRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
