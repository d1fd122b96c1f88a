package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorpulse/vendorpulse-backend/pkg/enums"
	"github.com/vendorpulse/vendorpulse-backend/pkg/types"
)

// PurchaseOrder is one transaction placed with a vendor. Status is stored as
// a free-form label; see enums.PurchaseOrderStatus for the expected values.
//
// Advisory invariants, documented but not enforced: DeliveryDate should not
// precede OrderDate, and a completed order should carry an acknowledgment
// date.
type PurchaseOrder struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	PONumber string    `gorm:"column:po_number;not null;uniqueIndex"`

	OrderDate    time.Time                 `gorm:"column:order_date;not null;autoCreateTime"`
	DeliveryDate time.Time                 `gorm:"column:delivery_date;not null"`
	Items        types.OrderItems          `gorm:"column:items;type:jsonb"`
	Quantity     int                       `gorm:"column:quantity;not null"`
	Status       enums.PurchaseOrderStatus `gorm:"column:status;type:varchar(50);not null"`

	QualityRating      *float64   `gorm:"column:quality_rating"`
	IssueDate          time.Time  `gorm:"column:issue_date;not null;autoCreateTime"`
	AcknowledgmentDate *time.Time `gorm:"column:acknowledgment_date"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Completed reports whether the order carries the completed status label.
func (p PurchaseOrder) Completed() bool {
	return p.Status == enums.PurchaseOrderStatusCompleted
}
