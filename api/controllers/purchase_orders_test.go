package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vendorpulse/vendorpulse-backend/internal/purchaseorders"
	"github.com/vendorpulse/vendorpulse-backend/pkg/enums"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/logger"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
)

type stubPOService struct {
	dto  *purchaseorders.PurchaseOrderDTO
	list *purchaseorders.PurchaseOrderList
	err  error

	created      *purchaseorders.CreatePurchaseOrderDTO
	updated      *purchaseorders.UpdatePurchaseOrderInput
	filters      *purchaseorders.ListFilters
	acknowledged *time.Time
	ackCalled    bool
}

func (s *stubPOService) Create(ctx context.Context, dto purchaseorders.CreatePurchaseOrderDTO) (*purchaseorders.PurchaseOrderDTO, error) {
	s.created = &dto
	return s.dto, s.err
}

func (s *stubPOService) GetByID(ctx context.Context, id uuid.UUID) (*purchaseorders.PurchaseOrderDTO, error) {
	return s.dto, s.err
}

func (s *stubPOService) List(ctx context.Context, params pagination.Params, filters purchaseorders.ListFilters) (*purchaseorders.PurchaseOrderList, error) {
	s.filters = &filters
	return s.list, s.err
}

func (s *stubPOService) Update(ctx context.Context, id uuid.UUID, input purchaseorders.UpdatePurchaseOrderInput) (*purchaseorders.PurchaseOrderDTO, error) {
	s.updated = &input
	return s.dto, s.err
}

func (s *stubPOService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubPOService) Acknowledge(ctx context.Context, id uuid.UUID, at *time.Time) (*purchaseorders.PurchaseOrderDTO, error) {
	s.ackCalled = true
	s.acknowledged = at
	return s.dto, s.err
}

func orderRouter(svc purchaseorders.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/purchase_orders", PurchaseOrderCreate(svc, nil))
	r.Get("/purchase_orders", PurchaseOrderList(svc, nil))
	r.Get("/purchase_orders/{orderId}", PurchaseOrderFetch(svc, nil))
	r.Put("/purchase_orders/{orderId}", PurchaseOrderUpdate(svc, nil))
	r.Delete("/purchase_orders/{orderId}", PurchaseOrderDelete(svc, nil))
	r.Post("/purchase_orders/{orderId}/acknowledge", PurchaseOrderAcknowledge(svc, nil))
	return r
}

func TestPurchaseOrderCreateSuccess(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubPOService{dto: &purchaseorders.PurchaseOrderDTO{ID: uuid.New(), VendorID: vendorID, PONumber: "PO-1"}}

	payload := []byte(`{
		"vendor_id": "` + vendorID.String() + `",
		"po_number": "PO-1",
		"delivery_date": "2024-07-01T00:00:00Z",
		"items": [{"sku": "WID-1", "qty": 3}],
		"quantity": 3,
		"status": "pending"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.VendorID != vendorID {
		t.Fatalf("service did not receive payload: %+v", svc.created)
	}
	if svc.created.Status != enums.PurchaseOrderStatusPending {
		t.Fatalf("unexpected status %q", svc.created.Status)
	}
}

func TestPurchaseOrderCreateAcceptsUnexpectedStatus(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubPOService{dto: &purchaseorders.PurchaseOrderDTO{ID: uuid.New(), VendorID: vendorID}}

	payload := []byte(`{
		"vendor_id": "` + vendorID.String() + `",
		"po_number": "PO-7",
		"delivery_date": "2024-07-01T00:00:00Z",
		"quantity": 1,
		"status": "on_hold"
	}`)
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	handler := PurchaseOrderCreate(svc, logger.New(logger.Options{ServiceName: "test"}))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("open status set must accept any label, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created == nil || svc.created.Status != enums.PurchaseOrderStatus("on_hold") {
		t.Fatalf("status not forwarded: %+v", svc.created)
	}
}

func TestPurchaseOrderCreateRejectsMissingFields(t *testing.T) {
	svc := &stubPOService{}
	payload := []byte(`{"po_number": "PO-2"}`)
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.created != nil {
		t.Fatal("service must not be called for an invalid payload")
	}
}

func TestPurchaseOrderCreateRejectsRatingOutOfRange(t *testing.T) {
	svc := &stubPOService{}
	payload := []byte(`{
		"vendor_id": "` + uuid.NewString() + `",
		"po_number": "PO-3",
		"delivery_date": "2024-07-01T00:00:00Z",
		"quantity": 1,
		"status": "completed",
		"quality_rating": 7.5
	}`)
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPurchaseOrderListParsesFilters(t *testing.T) {
	vendorID := uuid.New()
	svc := &stubPOService{list: &purchaseorders.PurchaseOrderList{Orders: []purchaseorders.PurchaseOrderDTO{}}}

	req := httptest.NewRequest(http.MethodGet, "/purchase_orders?vendor_id="+vendorID.String()+"&status=completed", nil)
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.filters == nil || svc.filters.VendorID == nil || *svc.filters.VendorID != vendorID {
		t.Fatalf("vendor filter not forwarded: %+v", svc.filters)
	}
	if svc.filters.Status == nil || *svc.filters.Status != enums.PurchaseOrderStatusCompleted {
		t.Fatalf("status filter not forwarded: %+v", svc.filters)
	}
}

func TestPurchaseOrderListRejectsBadVendorFilter(t *testing.T) {
	svc := &stubPOService{}
	req := httptest.NewRequest(http.MethodGet, "/purchase_orders?vendor_id=nope", nil)
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPurchaseOrderUpdateForwardsClearRatingFlag(t *testing.T) {
	svc := &stubPOService{dto: &purchaseorders.PurchaseOrderDTO{ID: uuid.New()}}
	payload := []byte(`{"clear_quality_rating": true}`)
	req := httptest.NewRequest(http.MethodPut, "/purchase_orders/"+uuid.NewString(), bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.updated == nil || !svc.updated.ClearQualityRating {
		t.Fatalf("clear flag not forwarded: %+v", svc.updated)
	}
	if svc.updated.QualityRating != nil {
		t.Fatalf("expected no rating value, got %v", *svc.updated.QualityRating)
	}
}

func TestPurchaseOrderUpdateConflictFromService(t *testing.T) {
	svc := &stubPOService{err: pkgerrors.New(pkgerrors.CodeConflict, "po number already in use")}
	payload := []byte(`{"quantity": 4}`)
	req := httptest.NewRequest(http.MethodPut, "/purchase_orders/"+uuid.NewString(), bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestPurchaseOrderAcknowledgeWithBody(t *testing.T) {
	svc := &stubPOService{dto: &purchaseorders.PurchaseOrderDTO{ID: uuid.New()}}
	payload := []byte(`{"acknowledgment_date": "2024-07-02T10:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders/"+uuid.NewString()+"/acknowledge", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if !svc.ackCalled {
		t.Fatal("acknowledge not called")
	}
	want := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)
	if svc.acknowledged == nil || !svc.acknowledged.Equal(want) {
		t.Fatalf("expected stamped date %v, got %v", want, svc.acknowledged)
	}
}

func TestPurchaseOrderAcknowledgeEmptyBodyDefaults(t *testing.T) {
	svc := &stubPOService{dto: &purchaseorders.PurchaseOrderDTO{ID: uuid.New()}}
	req := httptest.NewRequest(http.MethodPost, "/purchase_orders/"+uuid.NewString()+"/acknowledge", strings.NewReader(""))
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.ackCalled {
		t.Fatal("acknowledge not called")
	}
	if svc.acknowledged != nil {
		t.Fatalf("empty body must default to nil stamp, got %v", svc.acknowledged)
	}
}

func TestPurchaseOrderDeleteNotFound(t *testing.T) {
	svc := &stubPOService{err: pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")}
	req := httptest.NewRequest(http.MethodDelete, "/purchase_orders/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestPurchaseOrderFetchReturnsEnvelope(t *testing.T) {
	id := uuid.New()
	svc := &stubPOService{dto: &purchaseorders.PurchaseOrderDTO{ID: id, PONumber: "PO-9"}}
	req := httptest.NewRequest(http.MethodGet, "/purchase_orders/"+id.String(), nil)
	rec := httptest.NewRecorder()

	orderRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data purchaseorders.PurchaseOrderDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != id {
		t.Fatalf("expected id %s got %s", id, envelope.Data.ID)
	}
}
