package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendorpulse/vendorpulse-backend/api/responses"
	"github.com/vendorpulse/vendorpulse-backend/api/validators"
	"github.com/vendorpulse/vendorpulse-backend/internal/purchaseorders"
	"github.com/vendorpulse/vendorpulse-backend/pkg/enums"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/logger"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
	"github.com/vendorpulse/vendorpulse-backend/pkg/types"
)

type purchaseOrderCreateRequest struct {
	VendorID      uuid.UUID        `json:"vendor_id" validate:"required"`
	PONumber      string           `json:"po_number" validate:"required,min=1"`
	OrderDate     *time.Time       `json:"order_date,omitempty"`
	DeliveryDate  time.Time        `json:"delivery_date" validate:"required"`
	Items         types.OrderItems `json:"items,omitempty"`
	Quantity      int              `json:"quantity" validate:"required,min=1"`
	Status        string           `json:"status" validate:"required,min=1"`
	QualityRating *float64         `json:"quality_rating,omitempty" validate:"omitempty,min=0,max=5"`
	IssueDate     *time.Time       `json:"issue_date,omitempty"`
}

func (r purchaseOrderCreateRequest) toDTO() purchaseorders.CreatePurchaseOrderDTO {
	return purchaseorders.CreatePurchaseOrderDTO{
		VendorID:      r.VendorID,
		PONumber:      strings.TrimSpace(r.PONumber),
		OrderDate:     r.OrderDate,
		DeliveryDate:  r.DeliveryDate,
		Items:         r.Items,
		Quantity:      r.Quantity,
		Status:        enums.PurchaseOrderStatus(strings.TrimSpace(r.Status)),
		QualityRating: r.QualityRating,
		IssueDate:     r.IssueDate,
	}
}

type purchaseOrderUpdateRequest struct {
	DeliveryDate  *time.Time        `json:"delivery_date,omitempty"`
	Items         *types.OrderItems `json:"items,omitempty"`
	Quantity      *int              `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Status        *string           `json:"status,omitempty" validate:"omitempty,min=1"`
	QualityRating *float64          `json:"quality_rating,omitempty" validate:"omitempty,min=0,max=5"`

	// Omitted quality_rating means "leave unchanged", so dropping a rating
	// back to null needs an explicit flag.
	ClearQualityRating bool `json:"clear_quality_rating,omitempty"`
}

func (r purchaseOrderUpdateRequest) toInput() purchaseorders.UpdatePurchaseOrderInput {
	input := purchaseorders.UpdatePurchaseOrderInput{
		DeliveryDate:       r.DeliveryDate,
		Items:              r.Items,
		Quantity:           r.Quantity,
		QualityRating:      r.QualityRating,
		ClearQualityRating: r.ClearQualityRating,
	}
	if r.Status != nil {
		status := enums.PurchaseOrderStatus(strings.TrimSpace(*r.Status))
		input.Status = &status
	}
	return input
}

type purchaseOrderAcknowledgeRequest struct {
	AcknowledgmentDate *time.Time `json:"acknowledgment_date,omitempty"`
}

// PurchaseOrderCreate records a new order and recomputes the vendor's
// metrics in the same transaction.
func PurchaseOrderCreate(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		var payload purchaseOrderCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto := payload.toDTO()
		warnUnexpectedStatus(r, logg, dto.Status)

		order, err := svc.Create(r.Context(), dto)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func PurchaseOrderFetch(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// PurchaseOrderList supports optional vendor_id and status query filters.
func PurchaseOrderList(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters purchaseorders.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("vendor_id")); raw != "" {
			vendorID, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid vendor_id filter"))
				return
			}
			filters.VendorID = &vendorID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.PurchaseOrderStatus(raw)
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func PurchaseOrderUpdate(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload purchaseOrderUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := payload.toInput()
		if input.Status != nil {
			warnUnexpectedStatus(r, logg, *input.Status)
		}

		order, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// The status set is open: writes accept any non-empty label, but anything
// outside pending/completed/cancelled is worth a trace.
func warnUnexpectedStatus(r *http.Request, logg *logger.Logger, status enums.PurchaseOrderStatus) {
	if logg == nil || status.IsExpected() {
		return
	}
	logg.Warn(logg.WithField(r.Context(), "status", status.String()), "purchase order written with unexpected status label")
}

func PurchaseOrderDelete(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// PurchaseOrderAcknowledge stamps the acknowledgment date. The body is
// optional; an empty or absent body uses the current time.
func PurchaseOrderAcknowledge(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}

		id, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload purchaseOrderAcknowledgeRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		order, err := svc.Acknowledge(r.Context(), id, payload.AcknowledgmentDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
