package controllers

import (
	"net/http"
	"time"

	"github.com/vendorpulse/vendorpulse-backend/api/responses"
	"github.com/vendorpulse/vendorpulse-backend/api/validators"
	"github.com/vendorpulse/vendorpulse-backend/internal/performance"
	pkgerrors "github.com/vendorpulse/vendorpulse-backend/pkg/errors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/logger"
	"github.com/vendorpulse/vendorpulse-backend/pkg/pagination"
)

const maxHistoryLimit = 500

type snapshotRequest struct {
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// VendorPerformance returns the vendor's cached metric columns. It never
// recomputes; the values are whatever the last order write derived.
func VendorPerformance(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "performance service unavailable"))
			return
		}

		id, err := pathUUID(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		perf, err := svc.VendorPerformance(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, perf)
	}
}

// VendorSnapshot freezes the vendor's current metrics into a history row.
func VendorSnapshot(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "performance service unavailable"))
			return
		}

		id, err := pathUUID(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload snapshotRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		snapshot, err := svc.CaptureSnapshot(r.Context(), id, payload.RecordedAt)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, snapshot)
	}
}

// VendorHistory lists snapshots newest first.
func VendorHistory(svc performance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "performance service unavailable"))
			return
		}

		id, err := pathUUID(r, "vendorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxHistoryLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.History(r.Context(), id, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
