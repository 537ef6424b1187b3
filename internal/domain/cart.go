package domain

import "time"

// Cart is the per-user basket. Its lines are priced from the live catalog on
// every read; only order lines freeze a price.
type Cart struct {
	ID        string    `json:"id" gorm:"primaryKey;type:char(36)"`
	UserID    string    `json:"userId" gorm:"type:char(36);not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	Items []CartItem `json:"-" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartItem holds at most one line per variant in a cart.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:char(36)"`
	CartID    string    `json:"cartId" gorm:"type:char(36);not null;uniqueIndex:idx_cart_variant"`
	VariantID string    `json:"variantId" gorm:"type:char(36);not null;uniqueIndex:idx_cart_variant"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Note      *string   `json:"note" gorm:"type:varchar(500)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	Variant *Variant `json:"variant,omitempty" gorm:"foreignKey:VariantID"`
}
