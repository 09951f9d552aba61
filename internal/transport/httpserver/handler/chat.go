package handler

import (
	"errors"
	"net/http"
	"time"

	chatdomain "mess-app-go/internal/domain/chat"
	"mess-app-go/internal/transport/httpserver/middleware"
)

type postMessageRequest struct {
	Body     string   `json:"body"`
	Mentions []string `json:"mentions"`
}

type messageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Body       string    `json:"body"`
	Mentions   []string  `json:"mentions"`
	Violation  bool      `json:"violation"`
	CreatedAt  time.Time `json:"created_at"`
}

type messageListResponse struct {
	Items []messageResponse `json:"items"`
}

func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.MemberFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	filter := chatdomain.ListFilter{Limit: limit}
	if raw := query.Get("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid before timestamp")
			return
		}
		filter.Before = &before
	}

	items, err := h.Chat.List(r.Context(), filter)
	if err != nil {
		h.log.InternalError("chat.list: failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]messageResponse, 0, len(items))
	for _, message := range items {
		response = append(response, toMessageResponse(message))
	}
	writeJSON(w, http.StatusOK, messageListResponse{Items: response})
}

func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	sender, ok := middleware.MemberFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	message, err := h.Chat.Post(r.Context(), sender.ID, sender.Name, req.Body, req.Mentions)
	if err != nil {
		switch {
		case errors.Is(err, chatdomain.ErrBodyRequired):
			writeError(w, http.StatusBadRequest, "invalid_request", "message body is required")
		case errors.Is(err, chatdomain.ErrBodyTooLong):
			writeError(w, http.StatusBadRequest, "invalid_request", "message body is too long")
		default:
			h.log.InternalError("chat.post: failed", err, "sender_id", sender.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(*message))
}

func toMessageResponse(message chatdomain.Message) messageResponse {
	return messageResponse{
		ID:         message.ID,
		SenderID:   message.SenderID,
		SenderName: message.SenderName,
		Body:       message.Body,
		Mentions:   message.Mentions,
		Violation:  message.Violation,
		CreatedAt:  message.CreatedAt,
	}
}
