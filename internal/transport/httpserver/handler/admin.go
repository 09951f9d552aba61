package handler

import (
	"errors"
	"net/http"

	"mess-app-go/internal/domain/cutoff"
	mealdomain "mess-app-go/internal/domain/meal"
	"github.com/go-chi/chi/v5"
)

type materializeRequest struct {
	Date   string `json:"date"`
	Period string `json:"period"`
}

type materializeResponse struct {
	Inserted []mealdomain.MaterializedRow `json:"inserted"`
}

type backfillRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type backfillResponse struct {
	Results []mealdomain.BackfillResult `json:"results"`
}

type clearPeriodResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *Handlers) Materialize(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	if !actor.IsAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "admin only")
		return
	}

	var req materializeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}
	period, err := cutoff.ParsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid period")
		return
	}

	inserted, err := h.Meals.Materialize(r.Context(), date, period)
	if err != nil {
		h.log.InternalError("admin.materialize: failed", err, "date", req.Date, "period", req.Period)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, materializeResponse{Inserted: inserted})
}

func (h *Handlers) Backfill(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	if !actor.IsAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "admin only")
		return
	}

	var req backfillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	start, err := parseDateRequired(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start date")
		return
	}
	end, err := parseDateRequired(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid end date")
		return
	}

	results, err := h.Meals.Backfill(r.Context(), start, end)
	if err != nil {
		switch {
		case errors.Is(err, mealdomain.ErrInvalidRange):
			writeError(w, http.StatusBadRequest, "invalid_range", "end is before start")
		case errors.Is(err, mealdomain.ErrRangeTooLarge):
			writeError(w, http.StatusBadRequest, "range_too_large", "range exceeds one year")
		default:
			h.log.InternalError("admin.backfill: failed", err, "start", req.Start, "end", req.End)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, backfillResponse{Results: results})
}

func (h *Handlers) ClearPeriod(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	date, err := parseDateRequired(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}
	period, err := cutoff.ParsePeriod(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid period")
		return
	}

	deleted, err := h.Meals.ClearPeriod(r.Context(), actor, date, period)
	if err != nil {
		if errors.Is(err, mealdomain.ErrForbidden) {
			writeError(w, http.StatusForbidden, "forbidden", "admin only")
			return
		}
		h.log.InternalError("admin.clear_period: failed", err, "date", chi.URLParam(r, "date"))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, clearPeriodResponse{Deleted: deleted})
}
