package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db"
	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// metricsRecomputer is the write hook of the metrics engine. Every
// successful order write calls it inside the same transaction, so the order
// write and the vendor metric update commit or roll back together.
type metricsRecomputer interface {
	OnPurchaseOrderWritten(tx *gorm.DB, vendorID uuid.UUID, trigger string) error
}

// Service defines purchase order operations.
type Service interface {
	Create(ctx context.Context, dto CreatePurchaseOrderDTO) (*PurchaseOrderDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*PurchaseOrderList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePurchaseOrderInput) (*PurchaseOrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Acknowledge(ctx context.Context, id uuid.UUID, at *time.Time) (*PurchaseOrderDTO, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	recomputer metricsRecomputer
	now        func() time.Time
}

// NewService builds a purchase order service with the required dependencies.
func NewService(repo Repository, tx txRunner, recomputer metricsRecomputer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if recomputer == nil {
		return nil, fmt.Errorf("metrics recomputer required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		recomputer: recomputer,
		now:        time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, dto CreatePurchaseOrderDTO) (*PurchaseOrderDTO, error) {
	if dto.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}

	order := dto.ToModel(s.now().UTC())

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.VendorExists(ctx, dto.VendorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor")
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}

		if err := repo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "po number already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
		}

		return s.recomputer.OnPurchaseOrderWritten(tx, order.VendorID, "create")
	})
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderDTO, error) {
	order, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*PurchaseOrderList, error) {
	rows, next, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}
	list := &PurchaseOrderList{
		Orders:     make([]PurchaseOrderDTO, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		list.Orders = append(list.Orders, *FromModel(&rows[i]))
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePurchaseOrderInput) (*PurchaseOrderDTO, error) {
	if input.ClearQualityRating && input.QualityRating != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot set and clear quality rating in one update")
	}

	var updated *models.PurchaseOrder

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}

		if input.DeliveryDate != nil {
			order.DeliveryDate = *input.DeliveryDate
		}
		if input.Items != nil {
			order.Items = *input.Items
		}
		if input.Quantity != nil {
			order.Quantity = *input.Quantity
		}
		if input.Status != nil {
			order.Status = *input.Status
		}
		if input.ClearQualityRating {
			order.QualityRating = nil
		} else if input.QualityRating != nil {
			order.QualityRating = input.QualityRating
		}

		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase order")
		}

		updated = order
		return s.recomputer.OnPurchaseOrderWritten(tx, order.VendorID, "update")
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

// Delete removes the order without recomputing: only order writes trigger
// the engine, mirroring the upstream behavior. The next write to the same
// vendor reconciles the cached metrics.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "purchase order id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete purchase order")
	}
	return nil
}

// Acknowledge stamps the acknowledgment date, which feeds the average
// response time metric on the recomputation that follows.
func (s *service) Acknowledge(ctx context.Context, id uuid.UUID, at *time.Time) (*PurchaseOrderDTO, error) {
	var acknowledged *models.PurchaseOrder

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.load(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.AcknowledgmentDate != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "purchase order already acknowledged")
		}

		stamp := s.now().UTC()
		if at != nil {
			stamp = at.UTC()
		}
		order.AcknowledgmentDate = &stamp

		if err := repo.Update(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acknowledge purchase order")
		}

		acknowledged = order
		return s.recomputer.OnPurchaseOrderWritten(tx, order.VendorID, "acknowledge")
	})
	if err != nil {
		return nil, err
	}
	return FromModel(acknowledged), nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.PurchaseOrder, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id required")
	}
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
	}
	return order, nil
}
