package handler

import (
	"errors"
	"net/http"
	"time"

	"mess-app-go/internal/domain/cutoff"
	mealdomain "mess-app-go/internal/domain/meal"
	memberdomain "mess-app-go/internal/domain/member"
	"mess-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type setMealRequest struct {
	Quantity int    `json:"quantity"`
	MemberID string `json:"member_id"`
}

type registrationResponse struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
	Date     string `json:"date"`
	Period   string `json:"period"`
	Quantity int    `json:"quantity"`
}

type registrationListResponse struct {
	Items []registrationResponse `json:"items"`
}

type cutoffResponse struct {
	Period           string `json:"period"`
	Passed           bool   `json:"passed"`
	CutoffTime       string `json:"cutoff_time"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

func (h *Handlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	date, err := h.dateOrToday(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	board, err := h.Meals.Board(r.Context(), date)
	if err != nil {
		h.log.InternalError("meals.board: build failed", err, "member_id", actor.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (h *Handlers) ListMyMeals(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	from, err := parseDateRequired(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateRequired(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}

	items, err := h.Meals.Mine(r.Context(), actor.MemberID, from, to)
	if err != nil {
		if errors.Is(err, mealdomain.ErrInvalidRange) {
			writeError(w, http.StatusBadRequest, "invalid_range", "to is before from")
			return
		}
		h.log.InternalError("meals.mine: list failed", err, "member_id", actor.MemberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]registrationResponse, 0, len(items))
	for _, registration := range items {
		response = append(response, toRegistrationResponse(registration))
	}
	writeJSON(w, http.StatusOK, registrationListResponse{Items: response})
}

func (h *Handlers) SetMeal(w http.ResponseWriter, r *http.Request) {
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

	var req setMealRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	memberID := actor.MemberID
	if req.MemberID != "" {
		memberID = req.MemberID
	}

	registration, err := h.Meals.SetMeal(r.Context(), actor, memberID, date, period, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, mealdomain.ErrCutoffExceeded):
			h.log.BusinessError("meals.set: cutoff exceeded", err, "member_id", memberID, "period", period)
			writeError(w, http.StatusConflict, "cutoff_exceeded", "the cutoff for this period has passed")
		case errors.Is(err, mealdomain.ErrForbidden):
			writeError(w, http.StatusForbidden, "forbidden", "cannot modify another member's meal")
		case errors.Is(err, mealdomain.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 10")
		case errors.Is(err, memberdomain.ErrMemberNotFound):
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
		default:
			h.log.InternalError("meals.set: write failed", err, "member_id", memberID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toRegistrationResponse(*registration))
}

func (h *Handlers) GetCutoff(w http.ResponseWriter, r *http.Request) {
	period, err := cutoff.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid period")
		return
	}

	date, err := h.dateOrToday(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	passed, remaining := h.Meals.CutoffStatus(period, date)
	if remaining < 0 {
		remaining = 0
	}
	writeJSON(w, http.StatusOK, cutoffResponse{
		Period:           string(period),
		Passed:           passed,
		CutoffTime:       h.Meals.Policy().Label(period),
		RemainingSeconds: int64(remaining.Seconds()),
	})
}

func (h *Handlers) dateOrToday(value string) (time.Time, error) {
	parsed, err := parseDateParam(value)
	if err != nil {
		return time.Time{}, err
	}
	if parsed != nil {
		return *parsed, nil
	}
	return time.Now().In(h.Meals.Policy().Location()), nil
}

func toRegistrationResponse(registration mealdomain.Registration) registrationResponse {
	return registrationResponse{
		ID:       registration.ID,
		MemberID: registration.MemberID,
		Date:     registration.Date.Format("2006-01-02"),
		Period:   string(registration.Period),
		Quantity: registration.Quantity,
	}
}

func actorFromContext(r *http.Request) (mealdomain.Actor, bool) {
	member, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		return mealdomain.Actor{}, false
	}
	return mealdomain.Actor{MemberID: member.ID, Name: member.Name, IsAdmin: member.IsAdmin}, true
}
