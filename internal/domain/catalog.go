package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog records are owned by the catalog module. This service only reads
// them to price order lines.

type Address struct {
	ID     string `json:"id" gorm:"primaryKey;type:char(36)"`
	UserID string `json:"userId" gorm:"type:char(36);not null;index"`
}

type PrintFile struct {
	ID     string   `json:"id" gorm:"primaryKey;type:char(36)"`
	Volume *float64 `json:"volume"`
}

type Material struct {
	ID          string   `json:"id" gorm:"primaryKey;type:char(36)"`
	Name        string   `json:"name" gorm:"type:varchar(100);not null"`
	PriceFactor *float64 `json:"priceFactor" gorm:"default:1"`
	PricePerMm3 *float64 `json:"pricePerMm3"`
}

type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:char(36)"`
	Name        string          `json:"name" gorm:"type:varchar(255);not null"`
	BasePrice   decimal.Decimal `json:"basePrice" gorm:"type:decimal(14,2);not null;default:0"`
	PrintFileID *string         `json:"printFileId" gorm:"type:char(36)"`

	PrintFile *PrintFile `json:"printFile,omitempty" gorm:"foreignKey:PrintFileID"`
}

type Variant struct {
	ID         string    `json:"id" gorm:"primaryKey;type:char(36)"`
	ProductID  string    `json:"productId" gorm:"type:char(36);not null;index"`
	MaterialID string    `json:"materialId" gorm:"type:char(36);not null;index"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	Stock      int       `json:"stock" gorm:"not null;default:0"`
	Volume     *float64  `json:"volume"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`

	Product  Product  `json:"product" gorm:"foreignKey:ProductID"`
	Material Material `json:"material" gorm:"foreignKey:MaterialID"`
}
