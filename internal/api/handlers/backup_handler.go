package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edvass/notevault/internal/services"
)

// BackupHandler handles HTTP requests related to database backups.
type BackupHandler struct {
	service services.BackupServiceProvider
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(service services.BackupServiceProvider) *BackupHandler {
	return &BackupHandler{service: service}
}

// GetAll handles the request to list recorded backups.
func (h *BackupHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	backups, err := h.service.ListBackups()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve backups")
		http.Error(w, "Failed to retrieve backups", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(backups)
}

// Create handles the request to snapshot the database now.
func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	backup, err := h.service.CreateBackup()
	if err != nil {
		log.Error().Err(err).Msg("Failed to create backup")
		http.Error(w, "Failed to create backup", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(backup)
}
