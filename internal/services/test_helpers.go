package services

import (
	"time"

	"github.com/shopspring/decimal"

	"printstore/internal/auth"
	"printstore/internal/domain"
)

const (
	TestUserID      = "user-1"
	TestOtherUserID = "user-2"
	TestAdminID     = "admin-1"
	TestOrderID     = "order-1"
	TestAddressID   = "address-1"
	TestVariantID   = "variant-1"
	TestPaymentID   = "payment-1"
	TestShipmentID  = "shipment-1"
	TestVoucherID   = "voucher-1"
	TestCartID      = "cart-1"
	TestCartItemID  = "cart-item-1"
)

func CustomerActor() auth.Actor {
	return auth.Actor{Subject: TestUserID, Role: auth.RoleCustomer}
}

func AdminActor() auth.Actor {
	return auth.Actor{Subject: TestAdminID, Role: auth.RoleAdmin}
}

func CreateMockOrder(id, userID string, status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:        id,
		UserID:    userID,
		AddressID: TestAddressID,
		Status:    status,
		Version:   1,
		CreatedAt: time.Now(),
	}
}

func CreateMockVariant(id, basePrice string, stock int) *domain.Variant {
	return &domain.Variant{
		ID:    id,
		Stock: stock,
		Product: domain.Product{
			ID:        "product-1",
			BasePrice: decimal.RequireFromString(basePrice),
		},
	}
}

func CreateMockItem(id, orderID, variantID string, quantity int, price string) domain.OrderItem {
	return domain.OrderItem{
		ID:        id,
		OrderID:   orderID,
		VariantID: variantID,
		Quantity:  quantity,
		Price:     decimal.RequireFromString(price),
	}
}

func CreateMockVoucher(id, code string, discount float64, expiresAt time.Time, active bool) *domain.Voucher {
	return &domain.Voucher{
		ID:        id,
		Code:      code,
		Discount:  discount,
		ExpiresAt: expiresAt,
		IsActive:  active,
	}
}

func CreateMockPayment(id, orderID string, status domain.PaymentStatus, amount string) *domain.Payment {
	return &domain.Payment{
		ID:      id,
		OrderID: orderID,
		Method:  domain.MethodVNPay,
		Status:  status,
		Amount:  decimal.RequireFromString(amount),
	}
}

func CreateMockShipment(id, orderID string, status domain.ShipmentStatus) *domain.Shipment {
	return &domain.Shipment{
		ID:      id,
		OrderID: orderID,
		Status:  status,
	}
}

func CreateMockCart(id, userID string) *domain.Cart {
	return &domain.Cart{ID: id, UserID: userID}
}

func CreateMockCartItem(id, cartID string, variant *domain.Variant, quantity int) *domain.CartItem {
	return &domain.CartItem{
		ID:        id,
		CartID:    cartID,
		VariantID: variant.ID,
		Quantity:  quantity,
		Variant:   variant,
	}
}
