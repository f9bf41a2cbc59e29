package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/edvass/notevault/internal/monitoring"
)

// SystemHandler exposes the latest host/application stats sample.
type SystemHandler struct {
	updater *monitoring.StatUpdater
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(updater *monitoring.StatUpdater) *SystemHandler {
	return &SystemHandler{updater: updater}
}

// Get returns the most recent stats sample.
func (h *SystemHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.updater.Latest())
}
