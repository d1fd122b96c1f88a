package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vendorpulse/vendorpulse-backend/internal/performance"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
)

type stubPerformanceService struct {
	perf     *performance.VendorPerformanceDTO
	snapshot *performance.SnapshotDTO
	history  *performance.HistoryPage
	err      error

	snappedVendor uuid.UUID
	snappedAt     *time.Time
	historyParams pagination.Params
}

func (s *stubPerformanceService) VendorPerformance(ctx context.Context, vendorID uuid.UUID) (*performance.VendorPerformanceDTO, error) {
	return s.perf, s.err
}

func (s *stubPerformanceService) CaptureSnapshot(ctx context.Context, vendorID uuid.UUID, at *time.Time) (*performance.SnapshotDTO, error) {
	s.snappedVendor = vendorID
	s.snappedAt = at
	return s.snapshot, s.err
}

func (s *stubPerformanceService) History(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*performance.HistoryPage, error) {
	s.historyParams = params
	return s.history, s.err
}

func performanceRouter(svc performance.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/vendors/{vendorId}/performance", VendorPerformance(svc, nil))
	r.Post("/vendors/{vendorId}/performance/snapshot", VendorSnapshot(svc, nil))
	r.Get("/vendors/{vendorId}/performance/history", VendorHistory(svc, nil))
	return r
}

func TestVendorPerformanceReturnsCachedMetrics(t *testing.T) {
	id := uuid.New()
	svc := &stubPerformanceService{perf: &performance.VendorPerformanceDTO{
		VendorID:           id,
		VendorCode:         "ACME01",
		OnTimeDeliveryRate: 75,
		FulfillmentRate:    50,
	}}

	req := httptest.NewRequest(http.MethodGet, "/vendors/"+id.String()+"/performance", nil)
	rec := httptest.NewRecorder()

	performanceRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data performance.VendorPerformanceDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.OnTimeDeliveryRate != 75 || envelope.Data.VendorCode != "ACME01" {
		t.Fatalf("unexpected body: %+v", envelope.Data)
	}
}

func TestVendorPerformanceNotFound(t *testing.T) {
	svc := &stubPerformanceService{err: pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")}

	req := httptest.NewRequest(http.MethodGet, "/vendors/"+uuid.NewString()+"/performance", nil)
	rec := httptest.NewRecorder()

	performanceRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestVendorSnapshotWithBody(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC)
	svc := &stubPerformanceService{snapshot: &performance.SnapshotDTO{ID: uuid.New(), VendorID: id, RecordedAt: at}}

	payload := []byte(`{"recorded_at": "2024-08-01T10:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/vendors/"+id.String()+"/performance/snapshot", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	performanceRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.snappedVendor != id {
		t.Fatalf("expected vendor %s got %s", id, svc.snappedVendor)
	}
	if svc.snappedAt == nil || !svc.snappedAt.Equal(at) {
		t.Fatalf("expected recorded_at forwarded, got %v", svc.snappedAt)
	}
}

func TestVendorSnapshotEmptyBodyDefaults(t *testing.T) {
	id := uuid.New()
	svc := &stubPerformanceService{snapshot: &performance.SnapshotDTO{ID: uuid.New(), VendorID: id}}

	req := httptest.NewRequest(http.MethodPost, "/vendors/"+id.String()+"/performance/snapshot", nil)
	rec := httptest.NewRecorder()

	performanceRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.snappedAt != nil {
		t.Fatalf("expected nil recorded_at, got %v", svc.snappedAt)
	}
}

func TestVendorHistoryForwardsPagination(t *testing.T) {
	id := uuid.New()
	svc := &stubPerformanceService{history: &performance.HistoryPage{
		Snapshots:  []performance.SnapshotDTO{{ID: uuid.New(), VendorID: id}},
		NextCursor: "next",
	}}

	req := httptest.NewRequest(http.MethodGet, "/vendors/"+id.String()+"/performance/history?limit=25&cursor=abc", nil)
	rec := httptest.NewRecorder()

	performanceRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.historyParams.Limit != 25 || svc.historyParams.Cursor != "abc" {
		t.Fatalf("unexpected pagination params: %+v", svc.historyParams)
	}
	var envelope struct {
		Data performance.HistoryPage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.NextCursor != "next" {
		t.Fatalf("next cursor missing from body: %+v", envelope.Data)
	}
}

func TestVendorHistoryRejectsExcessiveLimit(t *testing.T) {
	svc := &stubPerformanceService{}

	req := httptest.NewRequest(http.MethodGet, "/vendors/"+uuid.NewString()+"/performance/history?limit=9999", nil)
	rec := httptest.NewRecorder()

	performanceRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestVendorPerformanceRejectsBadID(t *testing.T) {
	svc := &stubPerformanceService{}

	req := httptest.NewRequest(http.MethodGet, "/vendors/not-a-uuid/performance", nil)
	rec := httptest.NewRecorder()

	performanceRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
