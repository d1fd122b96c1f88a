package purchaseorders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
)

// Repository defines persistence operations for purchase orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.PurchaseOrder, string, error)
	Update(ctx context.Context, order *models.PurchaseOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	VendorExists(ctx context.Context, vendorID uuid.UUID) (bool, error)
}
