package domain

import "time"

type Voucher struct {
	ID        string    `json:"id" gorm:"primaryKey;type:char(36)"`
	Code      string    `json:"code" gorm:"type:varchar(50);not null;uniqueIndex"`
	Discount  float64   `json:"discount" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	IsActive  bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Usable reports whether the voucher may be redeemed at the given instant.
// A voucher whose expiry equals now is already expired.
func (v Voucher) Usable(now time.Time) bool {
	return v.IsActive && v.ExpiresAt.After(now)
}
