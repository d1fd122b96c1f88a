package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	"github.com/vendorpulse/vendorpulse-backend/pkg/enums"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
)

type stubOrderStore struct {
	orders  []models.PurchaseOrder
	listErr error

	savedVendor uuid.UUID
	saved       *Metrics
	saveErr     error
}

func (s *stubOrderStore) ListVendorOrdersWithTx(tx *gorm.DB, vendorID uuid.UUID) ([]models.PurchaseOrder, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.orders, nil
}

func (s *stubOrderStore) UpdateVendorMetricsWithTx(tx *gorm.DB, vendorID uuid.UUID, m Metrics) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.savedVendor = vendorID
	s.saved = &m
	return nil
}

func TestNewRecomputerRequiresStore(t *testing.T) {
	if _, err := NewRecomputer(nil, nil); err == nil {
		t.Fatal("expected error creating recomputer without store")
	}
}

func TestRecomputerPersistsDerivedMetrics(t *testing.T) {
	four := 4.0
	store := &stubOrderStore{
		orders: []models.PurchaseOrder{
			{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: evalAt.Add(-time.Hour), QualityRating: &four},
			{Status: enums.PurchaseOrderStatusCompleted, DeliveryDate: evalAt.Add(time.Hour)},
			{Status: enums.PurchaseOrderStatusPending, DeliveryDate: evalAt.Add(-time.Hour)},
		},
	}
	rec, err := NewRecomputer(store, nil, WithClock(func() time.Time { return evalAt }))
	if err != nil {
		t.Fatalf("new recomputer: %v", err)
	}

	vendorID := uuid.New()
	if err := rec.OnPurchaseOrderWritten(nil, vendorID, "create"); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	if store.saved == nil {
		t.Fatal("expected metrics to be persisted")
	}
	if store.savedVendor != vendorID {
		t.Fatalf("expected vendor %s, got %s", vendorID, store.savedVendor)
	}
	if !almostEqual(store.saved.OnTimeDeliveryRate, 50) {
		t.Fatalf("expected on-time rate 50, got %v", store.saved.OnTimeDeliveryRate)
	}
	if !almostEqual(store.saved.QualityRatingAvg, 4) {
		t.Fatalf("expected quality avg 4, got %v", store.saved.QualityRatingAvg)
	}
	if !almostEqual(store.saved.FulfillmentRate, 100.0/3) {
		t.Fatalf("expected fulfillment rate 33.33..., got %v", store.saved.FulfillmentRate)
	}
}

func TestRecomputerEmptyOrderSetWritesZeros(t *testing.T) {
	store := &stubOrderStore{}
	rec, err := NewRecomputer(store, nil)
	if err != nil {
		t.Fatalf("new recomputer: %v", err)
	}

	if err := rec.OnPurchaseOrderWritten(nil, uuid.New(), "update"); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if store.saved == nil || *store.saved != (Metrics{}) {
		t.Fatalf("expected zeroed metrics, got %+v", store.saved)
	}
}

func TestRecomputerWrapsLoadFailure(t *testing.T) {
	store := &stubOrderStore{listErr: errors.New("boom")}
	rec, _ := NewRecomputer(store, nil)

	err := rec.OnPurchaseOrderWritten(nil, uuid.New(), "create")
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if store.saved != nil {
		t.Fatal("no metrics should persist when the load fails")
	}
}

func TestRecomputerWrapsPersistFailure(t *testing.T) {
	store := &stubOrderStore{saveErr: errors.New("boom")}
	rec, _ := NewRecomputer(store, nil)

	err := rec.OnPurchaseOrderWritten(nil, uuid.New(), "create")
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
