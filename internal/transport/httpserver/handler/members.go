package handler

import (
	"errors"
	"net/http"

	"mess-app-go/internal/domain/cutoff"
	memberdomain "mess-app-go/internal/domain/member"
	"mess-app-go/internal/transport/httpserver/middleware"
)

type autoMealRequest struct {
	Period   string `json:"period"`
	Enabled  bool   `json:"enabled"`
	Quantity int    `json:"quantity"`
}

type updateMeRequest struct {
	Name           *string           `json:"name"`
	RiceType       *string           `json:"rice_type"`
	AutoMeals      []autoMealRequest `json:"auto_meals"`
	PeriodStartDay *int              `json:"period_start_day"`
	PeriodEndDay   *int              `json:"period_end_day"`
}

type memberResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RiceType       string `json:"rice_type"`
	IsAdmin        bool   `json:"is_admin"`
	Active         bool   `json:"active"`
	AutoMorning    bool   `json:"auto_morning"`
	AutoMorningQty int    `json:"auto_morning_qty"`
	AutoNight      bool   `json:"auto_night"`
	AutoNightQty   int    `json:"auto_night_qty"`
	PeriodStartDay *int   `json:"period_start_day"`
	PeriodEndDay   *int   `json:"period_end_day"`
}

type memberListResponse struct {
	Items []memberResponse `json:"items"`
}

func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	authed, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	record, err := h.Members.Get(r.Context(), authed.ID)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "member_not_found", "member not found")
			return
		}
		h.log.InternalError("members.me: get failed", err, "member_id", authed.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*record))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	authed, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if req.Name != nil || req.RiceType != nil {
		_, err := h.Members.UpdateProfile(r.Context(), authed.ID, memberdomain.ProfileInput{
			Name:     req.Name,
			RiceType: req.RiceType,
		})
		if err != nil {
			h.writeMemberError(w, err, authed.ID, "members.update: profile failed")
			return
		}
	}

	for _, auto := range req.AutoMeals {
		period, err := cutoff.ParsePeriod(auto.Period)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid period")
			return
		}
		_, err = h.Members.UpdateAutoMeal(r.Context(), authed.ID, memberdomain.AutoMealInput{
			Period:   period,
			Enabled:  auto.Enabled,
			Quantity: auto.Quantity,
		})
		if err != nil {
			h.writeMemberError(w, err, authed.ID, "members.update: auto meal failed")
			return
		}
	}

	if req.PeriodStartDay != nil || req.PeriodEndDay != nil {
		err := h.Members.UpdatePeriodBounds(r.Context(), authed.ID, req.PeriodStartDay, req.PeriodEndDay)
		if err != nil {
			h.writeMemberError(w, err, authed.ID, "members.update: period bounds failed")
			return
		}
	}

	record, err := h.Members.Get(r.Context(), authed.ID)
	if err != nil {
		h.writeMemberError(w, err, authed.ID, "members.update: reload failed")
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponse(*record))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.MemberFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	activeOnly := r.URL.Query().Get("all") == ""
	items, err := h.Members.List(r.Context(), activeOnly)
	if err != nil {
		h.log.InternalError("members.list: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]memberResponse, 0, len(items))
	for _, record := range items {
		response = append(response, toMemberResponse(record))
	}
	writeJSON(w, http.StatusOK, memberListResponse{Items: response})
}

func (h *Handlers) writeMemberError(w http.ResponseWriter, err error, memberID, logMessage string) {
	switch {
	case errors.Is(err, memberdomain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, memberdomain.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
	case errors.Is(err, memberdomain.ErrInvalidRiceType):
		writeError(w, http.StatusBadRequest, "invalid_request", "rice type must be plain or boiled")
	case errors.Is(err, memberdomain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 10")
	case errors.Is(err, memberdomain.ErrInvalidPeriodBound):
		writeError(w, http.StatusBadRequest, "invalid_request", "period day must be between 1 and 28")
	default:
		h.log.InternalError(logMessage, err, "member_id", memberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toMemberResponse(record memberdomain.Member) memberResponse {
	return memberResponse{
		ID:             record.ID,
		Name:           record.Name,
		RiceType:       record.RiceType,
		IsAdmin:        record.IsAdmin,
		Active:         record.Active,
		AutoMorning:    record.AutoMorning,
		AutoMorningQty: record.AutoMorningQty,
		AutoNight:      record.AutoNight,
		AutoNightQty:   record.AutoNightQty,
		PeriodStartDay: record.PeriodStartDay,
		PeriodEndDay:   record.PeriodEndDay,
	}
}
