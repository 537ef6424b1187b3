package mysql

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"printstore/internal/repository"
)

type store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(db *gorm.DB, logger *zap.Logger) repository.Store {
	return &store{db: db, logger: logger}
}

var _ repository.Store = (*store)(nil)

func (s *store) Orders() repository.OrderRepository {
	return &orderRepo{db: s.db, logger: s.logger}
}

func (s *store) OrderItems() repository.OrderItemRepository {
	return &orderItemRepo{db: s.db}
}

func (s *store) Variants() repository.VariantRepository {
	return &variantRepo{db: s.db}
}

func (s *store) Addresses() repository.AddressRepository {
	return &addressRepo{db: s.db}
}

func (s *store) Vouchers() repository.VoucherRepository {
	return &voucherRepo{db: s.db}
}

func (s *store) Payments() repository.PaymentRepository {
	return &paymentRepo{db: s.db}
}

func (s *store) Shipments() repository.ShipmentRepository {
	return &shipmentRepo{db: s.db}
}

func (s *store) Carts() repository.CartRepository {
	return &cartRepo{db: s.db}
}

func (s *store) CartItems() repository.CartItemRepository {
	return &cartItemRepo{db: s.db}
}

func (s *store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx, logger: s.logger})
	})
}

// findOne runs q.First and maps a missing row to (nil, nil).
func findOne[T any](q *gorm.DB, conds ...any) (*T, error) {
	var out T
	if err := q.First(&out, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// translate maps driver errors that callers branch on.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(repository.ErrDuplicateKey, err)
	}
	return err
}
