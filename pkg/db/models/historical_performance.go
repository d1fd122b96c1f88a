package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoricalPerformance is an append-only snapshot of a vendor's four
// metrics at capture time. Rows are never mutated or recomputed.
type HistoricalPerformance struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID   uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	RecordedAt time.Time `gorm:"column:recorded_at;not null;autoCreateTime"`

	OnTimeDeliveryRate  float64 `gorm:"column:on_time_delivery_rate;not null"`
	QualityRatingAvg    float64 `gorm:"column:quality_rating_avg;not null"`
	AverageResponseTime float64 `gorm:"column:average_response_time;not null"`
	FulfillmentRate     float64 `gorm:"column:fulfillment_rate;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
