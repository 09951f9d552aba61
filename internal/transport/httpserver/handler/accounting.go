package handler

import (
	"errors"
	"net/http"

	accountingdomain "mess-app-go/internal/domain/accounting"
	memberdomain "mess-app-go/internal/domain/member"
)

type eggRequest struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Consume bool   `json:"consume"`
}

type expenseRequest struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

type depositRequest struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type eggBalanceResponse struct {
	Balance int64 `json:"balance"`
}

func (h *Handlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFromContext(r); !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	date, err := h.dateOrToday(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	summary, err := h.Accounting.PeriodSummary(r.Context(), date)
	if err != nil {
		h.log.InternalError("accounting.summary: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) PostEggs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req eggRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	date, err := h.dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	if req.Consume {
		err = h.Accounting.ConsumeEggs(r.Context(), actor.MemberID, date, req.Count)
	} else {
		err = h.Accounting.AddEggs(r.Context(), actor.MemberID, date, req.Count)
	}
	if err != nil {
		h.writeAccountingError(w, err, actor.MemberID, "accounting.eggs: failed")
		return
	}

	balance, err := h.Accounting.EggBalance(r.Context(), actor.MemberID, date)
	if err != nil {
		h.writeAccountingError(w, err, actor.MemberID, "accounting.eggs: balance failed")
		return
	}
	writeJSON(w, http.StatusOK, eggBalanceResponse{Balance: balance})
}

func (h *Handlers) GetEggBalance(w http.ResponseWriter, r *http.Request) {
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

	balance, err := h.Accounting.EggBalance(r.Context(), actor.MemberID, date)
	if err != nil {
		h.writeAccountingError(w, err, actor.MemberID, "accounting.egg_balance: failed")
		return
	}
	writeJSON(w, http.StatusOK, eggBalanceResponse{Balance: balance})
}

func (h *Handlers) PostExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	date, err := h.dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	if err := h.Accounting.AddExpense(r.Context(), actor.MemberID, date, req.Amount, req.Note); err != nil {
		h.writeAccountingError(w, err, actor.MemberID, "accounting.expense: failed")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) PostDeposit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req depositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	date, err := h.dateOrToday(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid date")
		return
	}

	if err := h.Accounting.AddDeposit(r.Context(), actor.MemberID, date, req.Amount); err != nil {
		h.writeAccountingError(w, err, actor.MemberID, "accounting.deposit: failed")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) writeAccountingError(w http.ResponseWriter, err error, memberID, logMessage string) {
	switch {
	case errors.Is(err, accountingdomain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
	case errors.Is(err, accountingdomain.ErrInvalidCount):
		writeError(w, http.StatusBadRequest, "invalid_count", "count must be positive")
	case errors.Is(err, accountingdomain.ErrInsufficient):
		writeError(w, http.StatusConflict, "insufficient_eggs", "not enough eggs in balance")
	case errors.Is(err, memberdomain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	default:
		h.log.InternalError(logMessage, err, "member_id", memberID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
