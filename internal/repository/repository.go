package repository

import (
	"context"
	"errors"

	"printstore/internal/domain"
)

// ErrVersionConflict is returned by OrderRepository.Save when the row was
// modified since it was read.
var ErrVersionConflict = errors.New("order was modified concurrently")

// ErrDuplicateKey is returned when an insert or update violates a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

// Lookups return (nil, nil) when the record does not exist.

type OrderFilter struct {
	UserID string
	Status domain.OrderStatus
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	// Save writes the order columns guarded by order.Version and increments it.
	Save(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id string) error
}

type OrderItemRepository interface {
	Create(ctx context.Context, item *domain.OrderItem) error
	FindByID(ctx context.Context, id string) (*domain.OrderItem, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	Update(ctx context.Context, item *domain.OrderItem) error
	Delete(ctx context.Context, id string) error
	DeleteByOrder(ctx context.Context, orderID string) error
}

type VariantRepository interface {
	// FindByID loads the variant with its product, print file and material.
	FindByID(ctx context.Context, id string) (*domain.Variant, error)
}

type AddressRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Address, error)
}

type VoucherFilter struct {
	// Active selects active, unexpired vouchers when nil or true and
	// deactivated ones when false.
	Active *bool
}

type VoucherRepository interface {
	Create(ctx context.Context, voucher *domain.Voucher) error
	FindByID(ctx context.Context, id string) (*domain.Voucher, error)
	FindByCode(ctx context.Context, code string) (*domain.Voucher, error)
	List(ctx context.Context, filter VoucherFilter) ([]domain.Voucher, error)
	Update(ctx context.Context, voucher *domain.Voucher) error
	Delete(ctx context.Context, id string) error
}

type PaymentFilter struct {
	UserID string
	Status domain.PaymentStatus
	Method domain.PaymentMethod
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	Delete(ctx context.Context, id string) error
}

type ShipmentFilter struct {
	UserID string
	Status domain.ShipmentStatus
}

type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.Shipment) error
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Shipment, error)
	List(ctx context.Context, filter ShipmentFilter) ([]domain.Shipment, error)
	Update(ctx context.Context, shipment *domain.Shipment) error
	Delete(ctx context.Context, id string) error
}

// Store groups the repositories so that a service can run several of them
// in one transaction.
type CartRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Cart, error)
	FindByUser(ctx context.Context, userID string) (*domain.Cart, error)
	Create(ctx context.Context, cart *domain.Cart) error
	// Delete removes the cart and, through the foreign key, its lines.
	Delete(ctx context.Context, id string) error
}

// Cart item lookups load the variant with its product, print file and
// material so the line can be priced.
type CartItemRepository interface {
	Create(ctx context.Context, item *domain.CartItem) error
	FindByID(ctx context.Context, id string) (*domain.CartItem, error)
	FindByCartAndVariant(ctx context.Context, cartID, variantID string) (*domain.CartItem, error)
	// ListByCart returns the lines newest first.
	ListByCart(ctx context.Context, cartID string) ([]domain.CartItem, error)
	Update(ctx context.Context, item *domain.CartItem) error
	Delete(ctx context.Context, id string) error
}

type Store interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Variants() VariantRepository
	Addresses() AddressRepository
	Vouchers() VoucherRepository
	Payments() PaymentRepository
	Shipments() ShipmentRepository
	Carts() CartRepository
	CartItems() CartItemRepository

	// Transaction runs fn against a Store bound to one database transaction.
	// Returning an error rolls it back.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
