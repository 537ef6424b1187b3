package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"printstore/internal/auth"
	"printstore/internal/domain"
	"printstore/internal/repository"
)

const maxVoucherCodeLength = 50

// VoucherService is the admin surface over voucher records. Reads are
// public.
type VoucherService struct {
	store  repository.Store
	authz  auth.Authorizer
	logger *zap.Logger
	now    func() time.Time
}

func NewVoucherService(store repository.Store, logger *zap.Logger) *VoucherService {
	return &VoucherService{
		store:  store,
		authz:  auth.NewAuthorizer(),
		logger: logger,
		now:    time.Now,
	}
}

func validateVoucher(code string, discount float64) error {
	if code == "" || len(code) > maxVoucherCodeLength {
		return ErrInvalidCode
	}
	if math.IsNaN(discount) || discount < 0 || discount > 1 {
		return ErrInvalidDiscount
	}
	return nil
}

func (s *VoucherService) checkExpiry(expiresAt time.Time) error {
	if !expiresAt.After(s.now()) {
		return ErrInvalidExpiry
	}
	return nil
}

func (s *VoucherService) CreateVoucher(ctx context.Context, actor auth.Actor, in CreateVoucherInput) (*domain.Voucher, error) {
	if !s.authz.CanManageVouchers(actor) {
		return nil, ErrAdminOnly
	}
	code := strings.TrimSpace(in.Code)
	if err := validateVoucher(code, in.Discount); err != nil {
		return nil, err
	}
	if err := s.checkExpiry(in.ExpiresAt); err != nil {
		return nil, err
	}

	v := &domain.Voucher{
		ID:        uuid.NewString(),
		Code:      code,
		Discount:  in.Discount,
		ExpiresAt: in.ExpiresAt,
		IsActive:  true,
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	if err := s.store.Vouchers().Create(ctx, v); err != nil {
		return nil, mapDuplicate(err, ErrVoucherCodeTaken)
	}

	s.logger.Info("voucher created", zap.String("voucher_id", v.ID), zap.String("code", v.Code))
	return v, nil
}

// ListVouchers returns active, unexpired vouchers unless active is false,
// which lists deactivated ones.
func (s *VoucherService) ListVouchers(ctx context.Context, active *bool) ([]domain.Voucher, error) {
	return s.store.Vouchers().List(ctx, repository.VoucherFilter{Active: active})
}

func (s *VoucherService) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	v, err := s.store.Vouchers().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVoucherNotFound
	}
	return v, nil
}

// UpdateVoucher edits a voucher. Orders that already redeemed it keep their
// frozen discount.
func (s *VoucherService) UpdateVoucher(ctx context.Context, actor auth.Actor, id string, in UpdateVoucherInput) (*domain.Voucher, error) {
	if !s.authz.CanManageVouchers(actor) {
		return nil, ErrAdminOnly
	}
	v, err := s.GetVoucher(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Code != nil {
		v.Code = strings.TrimSpace(*in.Code)
	}
	if in.Discount != nil {
		v.Discount = *in.Discount
	}
	if in.ExpiresAt != nil {
		if err := s.checkExpiry(*in.ExpiresAt); err != nil {
			return nil, err
		}
		v.ExpiresAt = *in.ExpiresAt
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
	if err := validateVoucher(v.Code, v.Discount); err != nil {
		return nil, err
	}

	if err := s.store.Vouchers().Update(ctx, v); err != nil {
		return nil, mapDuplicate(err, ErrVoucherCodeTaken)
	}
	return v, nil
}

func (s *VoucherService) DeleteVoucher(ctx context.Context, actor auth.Actor, id string) (*domain.Voucher, error) {
	if !s.authz.CanManageVouchers(actor) {
		return nil, ErrAdminOnly
	}
	v, err := s.GetVoucher(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Vouchers().Delete(ctx, id); err != nil {
		return nil, err
	}
	return v, nil
}
