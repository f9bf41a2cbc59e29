package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/edvass/notevault/internal/auth"
	"github.com/edvass/notevault/internal/services"
)

// NoteHandler handles HTTP requests for notes. The owner id always comes
// from the session claims, never from the request body or URL.
type NoteHandler struct {
	service services.NoteServiceProvider
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(service services.NoteServiceProvider) *NoteHandler {
	return &NoteHandler{service: service}
}

// CreateNotePayload is the expected JSON body for creating a note.
type CreateNotePayload struct {
	Content string `json:"content"`
}

// Create handles saving a new note for the authenticated user.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	var payload CreateNotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" {
		http.Error(w, "Note content must not be empty", http.StatusBadRequest)
		return
	}

	note, err := h.service.CreateNote(claims.UserID, content)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to create note")
		http.Error(w, "Failed to save note", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note)
}

// GetAll handles listing the authenticated user's notes in creation order.
func (h *NoteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	notes, err := h.service.ListNotes(claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to list notes")
		http.Error(w, "Failed to load notes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notes)
}

// Delete handles removing one of the authenticated user's notes. Ids that
// don't exist, or that belong to another user, are a silent no-op.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusUnauthorized)
		return
	}

	noteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid note id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteNote(claims.UserID, noteID); err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Int64("note_id", noteID).Msg("Failed to delete note")
		http.Error(w, "Failed to delete note", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
