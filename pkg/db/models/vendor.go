package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a supplier with four cached performance metrics. The metric
// columns are a materialized view over the vendor's purchase orders: only the
// recomputation path writes them, never request handlers.
type Vendor struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	ContactDetails string    `gorm:"column:contact_details;not null;uniqueIndex"`
	Address        string    `gorm:"column:address;not null"`
	VendorCode     string    `gorm:"column:vendor_code;type:varchar(6);not null;uniqueIndex"`

	OnTimeDeliveryRate  float64 `gorm:"column:on_time_delivery_rate;not null;default:0"`
	QualityRatingAvg    float64 `gorm:"column:quality_rating_avg;not null;default:0"`
	AverageResponseTime float64 `gorm:"column:average_response_time;not null;default:0"`
	FulfillmentRate     float64 `gorm:"column:fulfillment_rate;not null;default:0"`

	PurchaseOrders []PurchaseOrder         `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`
	History        []HistoricalPerformance `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
