package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
)

// VendorDTO exposes vendor data in API responses, including the four cached
// metric fields.
type VendorDTO struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	ContactDetails      string    `json:"contact_details"`
	Address             string    `json:"address"`
	VendorCode          string    `json:"vendor_code"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CreateVendorDTO holds creation-time data for a new vendor. Metric fields
// are absent on purpose: new vendors always start at zero.
type CreateVendorDTO struct {
	Name           string
	ContactDetails string
	Address        string
	VendorCode     string
}

// UpdateVendorInput captures the vendor fields a caller may mutate. The
// metric columns are excluded; only the recomputation path writes them.
type UpdateVendorInput struct {
	Name           *string
	ContactDetails *string
	Address        *string
}

// FromModel maps the persisted vendor into a DTO.
func FromModel(m *models.Vendor) *VendorDTO {
	if m == nil {
		return nil
	}
	return &VendorDTO{
		ID:                  m.ID,
		Name:                m.Name,
		ContactDetails:      m.ContactDetails,
		Address:             m.Address,
		VendorCode:          m.VendorCode,
		OnTimeDeliveryRate:  m.OnTimeDeliveryRate,
		QualityRatingAvg:    m.QualityRatingAvg,
		AverageResponseTime: m.AverageResponseTime,
		FulfillmentRate:     m.FulfillmentRate,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from the creation DTO. All four metrics
// start at zero.
func (c CreateVendorDTO) ToModel() *models.Vendor {
	return &models.Vendor{
		ID:             uuid.New(),
		Name:           c.Name,
		ContactDetails: c.ContactDetails,
		Address:        c.Address,
		VendorCode:     c.VendorCode,
	}
}
