package handler

import (
	"net/http"
	"time"
)

// ClockStatus is the slice of the synced clock the health endpoint reports.
type ClockStatus interface {
	Stale() error
	Offset() (time.Duration, time.Time)
}

type clockHealth struct {
	Synced   bool       `json:"synced"`
	OffsetMS int64      `json:"offset_ms"`
	SyncedAt *time.Time `json:"synced_at,omitempty"`
}

type healthResponse struct {
	Status string      `json:"status"`
	Clock  clockHealth `json:"clock"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	offset, syncedAt := h.clock.Offset()
	health := clockHealth{
		Synced:   h.clock.Stale() == nil,
		OffsetMS: offset.Milliseconds(),
	}
	if !syncedAt.IsZero() {
		health.SyncedAt = &syncedAt
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Clock: health})
}
