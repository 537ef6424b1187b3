package domain

import "time"

type ShipmentStatus string

const (
	ShipmentPreparing ShipmentStatus = "PREPARING"
	ShipmentInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
	ShipmentReturned  ShipmentStatus = "RETURNED"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentPreparing, ShipmentInTransit, ShipmentDelivered, ShipmentReturned:
		return true
	}
	return false
}

type Shipment struct {
	ID          string         `json:"id" gorm:"primaryKey;type:char(36)"`
	OrderID     string         `json:"orderId" gorm:"type:char(36);not null;uniqueIndex"`
	Carrier     *string        `json:"carrier" gorm:"type:varchar(64)"`
	TrackingNo  *string        `json:"trackingNo" gorm:"type:varchar(64)"`
	Status      ShipmentStatus `json:"status" gorm:"type:varchar(16);not null;default:'PREPARING';index"`
	ShippedAt   *time.Time     `json:"shippedAt" gorm:"index"`
	DeliveredAt *time.Time     `json:"deliveredAt"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`

	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}
