package vendors

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendorpulse/vendorpulse-backend/pkg/db"
	"github.com/vendorpulse/vendorpulse-backend/pkg/db/models"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
)

type vendorRepository interface {
	Create(ctx context.Context, dto CreateVendorDTO) (*models.Vendor, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByCode(ctx context.Context, code string) (*models.Vendor, error)
	List(ctx context.Context, params pagination.Params) ([]models.Vendor, string, error)
	Update(ctx context.Context, vendor *models.Vendor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var vendorCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// VendorList is one page of vendors.
type VendorList struct {
	Vendors    []VendorDTO `json:"vendors"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// Service exposes vendor operations.
type Service interface {
	Create(ctx context.Context, dto CreateVendorDTO) (*VendorDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VendorDTO, error)
	GetByCode(ctx context.Context, code string) (*VendorDTO, error)
	List(ctx context.Context, params pagination.Params) (*VendorList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateVendorInput) (*VendorDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo vendorRepository
}

// NewService builds a vendor service with the provided repository.
func NewService(repo vendorRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	return &service{repo: repo}, nil
}

// Create persists a new vendor. Metrics start at zero and stay zero until
// the first purchase order write triggers a recomputation.
func (s *service) Create(ctx context.Context, dto CreateVendorDTO) (*VendorDTO, error) {
	vendor, err := s.repo.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "vendor code or contact already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	return FromModel(vendor), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*VendorDTO, error) {
	vendor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(vendor), nil
}

// GetByCode resolves a vendor by its unique six-character code.
func (s *service) GetByCode(ctx context.Context, code string) (*VendorDTO, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !vendorCodePattern.MatchString(code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor code must be six uppercase letters or digits")
	}
	vendor, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor by code")
	}
	return FromModel(vendor), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*VendorList, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	list := &VendorList{
		Vendors:    make([]VendorDTO, 0, len(rows)),
		NextCursor: next,
	}
	for i := range rows {
		list.Vendors = append(list.Vendors, *FromModel(&rows[i]))
	}
	return list, nil
}

// Update mutates identity fields only. The metric columns are never touched
// here; they belong to the recomputation path.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateVendorInput) (*VendorDTO, error) {
	vendor, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		vendor.Name = *input.Name
	}
	if input.ContactDetails != nil {
		vendor.ContactDetails = *input.ContactDetails
	}
	if input.Address != nil {
		vendor.Address = *input.Address
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "contact already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	return FromModel(vendor), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor id required")
	}
	vendor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return vendor, nil
}
