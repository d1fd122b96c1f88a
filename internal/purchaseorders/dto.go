package purchaseorders

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	"github.com/vendorpulse/vendorpulse-backend/pkg/enums"
	"github.com/vendorpulse/vendorpulse-backend/pkg/types"
)

// PurchaseOrderDTO exposes purchase order data in API responses.
type PurchaseOrderDTO struct {
	ID                 uuid.UUID                 `json:"id"`
	VendorID           uuid.UUID                 `json:"vendor_id"`
	PONumber           string                    `json:"po_number"`
	OrderDate          time.Time                 `json:"order_date"`
	DeliveryDate       time.Time                 `json:"delivery_date"`
	Items              types.OrderItems          `json:"items"`
	Quantity           int                       `json:"quantity"`
	Status             enums.PurchaseOrderStatus `json:"status"`
	QualityRating      *float64                  `json:"quality_rating,omitempty"`
	IssueDate          time.Time                 `json:"issue_date"`
	AcknowledgmentDate *time.Time                `json:"acknowledgment_date,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// CreatePurchaseOrderDTO holds creation-time data. OrderDate and IssueDate
// default to the creation instant when omitted.
type CreatePurchaseOrderDTO struct {
	VendorID           uuid.UUID
	PONumber           string
	OrderDate          *time.Time
	DeliveryDate       time.Time
	Items              types.OrderItems
	Quantity           int
	Status             enums.PurchaseOrderStatus
	QualityRating      *float64
	IssueDate          *time.Time
	AcknowledgmentDate *time.Time
}

// UpdatePurchaseOrderInput captures the fields a caller may mutate. A nil
// QualityRating means "leave unchanged"; ClearQualityRating drops an
// existing rating back to null, which returns the order to the
// fulfillment-rate numerator once completed.
type UpdatePurchaseOrderInput struct {
	DeliveryDate       *time.Time
	Items              *types.OrderItems
	Quantity           *int
	Status             *enums.PurchaseOrderStatus
	QualityRating      *float64
	ClearQualityRating bool
}

// ListFilters narrows purchase order pages.
type ListFilters struct {
	VendorID *uuid.UUID
	Status   *enums.PurchaseOrderStatus
}

// PurchaseOrderList is one page of purchase orders.
type PurchaseOrderList struct {
	Orders     []PurchaseOrderDTO `json:"purchase_orders"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// FromModel maps the persisted order into a DTO.
func FromModel(m *models.PurchaseOrder) *PurchaseOrderDTO {
	if m == nil {
		return nil
	}
	return &PurchaseOrderDTO{
		ID:                 m.ID,
		VendorID:           m.VendorID,
		PONumber:           m.PONumber,
		OrderDate:          m.OrderDate,
		DeliveryDate:       m.DeliveryDate,
		Items:              m.Items,
		Quantity:           m.Quantity,
		Status:             m.Status,
		QualityRating:      m.QualityRating,
		IssueDate:          m.IssueDate,
		AcknowledgmentDate: m.AcknowledgmentDate,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO, supplying the
// date defaults.
func (c CreatePurchaseOrderDTO) ToModel(now time.Time) *models.PurchaseOrder {
	model := &models.PurchaseOrder{
		ID:                 uuid.New(),
		VendorID:           c.VendorID,
		PONumber:           c.PONumber,
		OrderDate:          now,
		DeliveryDate:       c.DeliveryDate,
		Items:              c.Items,
		Quantity:           c.Quantity,
		Status:             c.Status,
		QualityRating:      c.QualityRating,
		IssueDate:          now,
		AcknowledgmentDate: c.AcknowledgmentDate,
	}
	if c.OrderDate != nil {
		model.OrderDate = *c.OrderDate
	}
	if c.IssueDate != nil {
		model.IssueDate = *c.IssueDate
	}
	return model
}
