package performance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
)

// VendorPerformanceDTO is the read model for a vendor's cached metrics.
type VendorPerformanceDTO struct {
	VendorID            uuid.UUID `json:"vendor_id"`
	VendorCode          string    `json:"vendor_code"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
}

// SnapshotDTO is one immutable history row.
type SnapshotDTO struct {
	ID                  uuid.UUID `json:"id"`
	VendorID            uuid.UUID `json:"vendor_id"`
	RecordedAt          time.Time `json:"recorded_at"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64   `json:"quality_rating_avg"`
	AverageResponseTime float64   `json:"average_response_time"`
	FulfillmentRate     float64   `json:"fulfillment_rate"`
}

// HistoryPage is one page of the snapshot scan, newest first.
type HistoryPage struct {
	Snapshots  []SnapshotDTO `json:"snapshots"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Store is the repository surface the service depends on.
type Store interface {
	FindVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error)
	CreateSnapshot(ctx context.Context, snapshot *models.HistoricalPerformance) error
	ListSnapshots(ctx context.Context, vendorID uuid.UUID, limit int) ([]models.HistoricalPerformance, error)
	ListSnapshotsBefore(ctx context.Context, vendorID uuid.UUID, before time.Time, limit int) ([]models.HistoricalPerformance, error)
}

// Service exposes performance reads and snapshot capture.
type Service interface {
	VendorPerformance(ctx context.Context, vendorID uuid.UUID) (*VendorPerformanceDTO, error)
	CaptureSnapshot(ctx context.Context, vendorID uuid.UUID, at *time.Time) (*SnapshotDTO, error)
	History(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*HistoryPage, error)
}

type service struct {
	store Store
}

// NewService builds the performance service.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, errors.New("performance store required")
	}
	return &service{store: store}, nil
}

// VendorPerformance returns the cached metric columns as-is. No
// recomputation happens on read; the columns are kept fresh by the
// write-triggered hook.
func (s *service) VendorPerformance(ctx context.Context, vendorID uuid.UUID) (*VendorPerformanceDTO, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return &VendorPerformanceDTO{
		VendorID:            vendor.ID,
		VendorCode:          vendor.VendorCode,
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
	}, nil
}

// CaptureSnapshot copies whatever the vendor's metric columns currently
// hold into a new history row. No recomputation, no deduplication.
func (s *service) CaptureSnapshot(ctx context.Context, vendorID uuid.UUID, at *time.Time) (*SnapshotDTO, error) {
	vendor, err := s.loadVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.HistoricalPerformance{
		ID:                  uuid.New(),
		VendorID:            vendor.ID,
		OnTimeDeliveryRate:  vendor.OnTimeDeliveryRate,
		QualityRatingAvg:    vendor.QualityRatingAvg,
		AverageResponseTime: vendor.AverageResponseTime,
		FulfillmentRate:     vendor.FulfillmentRate,
	}
	if at != nil {
		snapshot.RecordedAt = at.UTC()
	} else {
		snapshot.RecordedAt = time.Now().UTC()
	}

	if err := s.store.CreateSnapshot(ctx, snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist performance snapshot")
	}

	dto := toSnapshotDTO(*snapshot)
	return &dto, nil
}

// History pages the snapshot scan on recorded_at. The cursor encodes the
// last row's recorded_at; rows sharing that exact instant with a page
// boundary are skipped, acceptable for an append-only audit trail.
func (s *service) History(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*HistoryPage, error) {
	if _, err := s.loadVendor(ctx, vendorID); err != nil {
		return nil, err
	}

	before, err := pagination.ParseTimeCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid history cursor")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}

	var rows []models.HistoricalPerformance
	if before != nil {
		rows, err = s.store.ListSnapshotsBefore(ctx, vendorID, *before, limit+1)
	} else {
		rows, err = s.store.ListSnapshots(ctx, vendorID, limit+1)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list performance history")
	}

	page := &HistoryPage{Snapshots: make([]SnapshotDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		page.NextCursor = pagination.EncodeTimeCursor(rows[len(rows)-1].RecordedAt)
	}
	for _, row := range rows {
		page.Snapshots = append(page.Snapshots, toSnapshotDTO(row))
	}
	return page, nil
}

func (s *service) loadVendor(ctx context.Context, vendorID uuid.UUID) (*models.Vendor, error) {
	if vendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.store.FindVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}

func toSnapshotDTO(row models.HistoricalPerformance) SnapshotDTO {
	return SnapshotDTO{
		ID:                  row.ID,
		VendorID:            row.VendorID,
		RecordedAt:          row.RecordedAt,
		OnTimeDeliveryRate:  row.OnTimeDeliveryRate,
		QualityRatingAvg:    row.QualityRatingAvg,
		AverageResponseTime: row.AverageResponseTime,
		FulfillmentRate:     row.FulfillmentRate,
	}
}
