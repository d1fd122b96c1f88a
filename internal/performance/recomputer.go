package performance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	pkgmetrics "github.com/vendorpulse/vendorpulse-backend/pkg/metrics"
)

// OrderStore is the persistence surface the recomputer needs inside the
// triggering transaction.
type OrderStore interface {
	ListVendorOrdersWithTx(tx *gorm.DB, vendorID uuid.UUID) ([]models.PurchaseOrder, error)
	UpdateVendorMetricsWithTx(tx *gorm.DB, vendorID uuid.UUID, m Metrics) error
}

// Recomputer applies the metrics engine to a vendor whenever one of its
// purchase orders is written. Recomputation is all-or-nothing: all four
// metrics are derived from the full order set and persisted inside the same
// transaction as the triggering write, so the caller sees one failure unit.
type Recomputer struct {
	store OrderStore
	obs   *pkgmetrics.RecomputeMetrics
	now   func() time.Time
}

// RecomputerOption customizes a Recomputer.
type RecomputerOption func(*Recomputer)

// WithClock overrides the evaluation instant source. Tests pin it to make
// the on-time derivation deterministic.
func WithClock(now func() time.Time) RecomputerOption {
	return func(r *Recomputer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecomputer builds the write-triggered recomputation hook.
func NewRecomputer(store OrderStore, obs *pkgmetrics.RecomputeMetrics, opts ...RecomputerOption) (*Recomputer, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "performance store required")
	}
	r := &Recomputer{
		store: store,
		obs:   obs,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// OnPurchaseOrderWritten recomputes and persists all four metrics for the
// order's vendor. It must run inside the transaction that wrote the order;
// any error rolls the whole write back.
func (r *Recomputer) OnPurchaseOrderWritten(tx *gorm.DB, vendorID uuid.UUID, trigger string) error {
	start := time.Now()

	orders, err := r.store.ListVendorOrdersWithTx(tx, vendorID)
	if err != nil {
		r.obs.IncFailure(trigger)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor order set")
	}

	derived := Compute(orders, r.now())
	if err := derived.Validate(); err != nil {
		r.obs.IncFailure(trigger)
		return pkgerrors.Wrap(pkgerrors.CodeConsistency, err, "recomputed metrics out of range")
	}

	if err := r.store.UpdateVendorMetricsWithTx(tx, vendorID, derived); err != nil {
		r.obs.IncFailure(trigger)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist vendor metrics")
	}

	r.obs.ObserveDuration(trigger, time.Since(start))
	r.obs.IncSuccess(trigger)
	return nil
}
