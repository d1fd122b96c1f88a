package performance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
)

// Repository handles the persistence surface of the metrics engine: reading
// a vendor's full order set, writing the cached metric columns, and
// appending historical snapshots.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to performance operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListVendorOrders loads the vendor's complete purchase order set.
func (r *Repository) ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]models.PurchaseOrder, error) {
	return listVendorOrders(r.db.WithContext(ctx), vendorID)
}

// ListVendorOrdersWithTx loads the order set using the provided transaction.
func (r *Repository) ListVendorOrdersWithTx(tx *gorm.DB, vendorID uuid.UUID) ([]models.PurchaseOrder, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	return listVendorOrders(tx, vendorID)
}

func listVendorOrders(db *gorm.DB, vendorID uuid.UUID) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	if err := db.Where("vendor_id = ?", vendorID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateVendorMetricsWithTx writes the four cached metric columns. Only the
// recomputation path calls this; vendor CRUD never touches these columns.
func (r *Repository) UpdateVendorMetricsWithTx(tx *gorm.DB, vendorID uuid.UUID, m Metrics) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	return tx.Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]any{
			"on_time_delivery_rate": m.OnTimeDeliveryRate,
			"quality_rating_avg":    m.QualityRatingAvg,
			"average_response_time": m.AverageResponseTime,
			"fulfillment_rate":      m.FulfillmentRate,
		}).Error
}

// FindVendor loads a vendor row.
func (r *Repository) FindVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("id = ?", vendorID).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// CreateSnapshot appends one immutable historical row.
func (r *Repository) CreateSnapshot(ctx context.Context, snapshot *models.HistoricalPerformance) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

// ListSnapshots returns a vendor's history ordered by capture time, newest
// first.
func (r *Repository) ListSnapshots(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.HistoricalPerformance, error) {
	var rows []models.HistoricalPerformance
	q := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("recorded_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSnapshotsBefore returns history rows captured strictly before the
// given instant, newest first.
func (r *Repository) ListSnapshotsBefore(ctx context.Context, vendorID uuid.UUID, before time.Time, limit int) ([]models.HistoricalPerformance, error) {
	var rows []models.HistoricalPerformance
	q := r.db.WithContext(ctx).
		Where("vendor_id = ? AND recorded_at < ?", vendorID, before).
		Order("recorded_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
