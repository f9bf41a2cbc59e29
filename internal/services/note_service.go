package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/edvass/notevault/internal/models"
	"github.com/edvass/notevault/internal/websocket"
	"github.com/rs/zerolog/log"
)

// NoteServiceProvider defines the interface for note services.
type NoteServiceProvider interface {
	CreateNote(ownerID int64, content string) (models.Note, error)
	ListNotes(ownerID int64) ([]models.Note, error)
	DeleteNote(ownerID, noteID int64) error
}

// NoteService persists, lists, and deletes notes scoped to an owner.
// It does not consult the session; callers supply the owner id, which
// keeps it testable independent of session concerns.
type NoteService struct {
	db           *sql.DB
	eventService EventServiceProvider
	hub          *websocket.Hub
}

// NewNoteService creates a new NoteService. The hub may be nil when no
// live feed is wanted (tests, CLI tools).
func NewNoteService(db *sql.DB, eventService EventServiceProvider, hub *websocket.Hub) *NoteService {
	return &NoteService{db: db, eventService: eventService, hub: hub}
}

// CreateNote inserts a note for the given owner and returns it with its
// assigned id. Owner existence is a declared relationship only; it is not
// checked here.
func (s *NoteService) CreateNote(ownerID int64, content string) (models.Note, error) {
	res, err := s.db.Exec("INSERT INTO notes (owner_id, content) VALUES (?, ?)", ownerID, content)
	if err != nil {
		return models.Note{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, err
	}

	var note models.Note
	row := s.db.QueryRow("SELECT id, owner_id, content, created_at FROM notes WHERE id = ?", id)
	if err := row.Scan(&note.ID, &note.OwnerID, &note.Content, &note.CreatedAt); err != nil {
		return models.Note{}, err
	}

	s.recordEvent("note.create", fmt.Sprintf("Note %d created.", note.ID), ownerID)
	s.notifyOwner(ownerID, "note.created", note)
	return note, nil
}

// ListNotes returns all notes belonging to ownerID in insertion order.
// The result is recomputed fresh on every call.
func (s *NoteService) ListNotes(ownerID int64) ([]models.Note, error) {
	rows, err := s.db.Query("SELECT id, owner_id, content, created_at FROM notes WHERE owner_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Content, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// DeleteNote removes a note by id, scoped to its owner. Deleting an id
// that does not exist, or that belongs to someone else, is a no-op.
func (s *NoteService) DeleteNote(ownerID, noteID int64) error {
	res, err := s.db.Exec("DELETE FROM notes WHERE id = ? AND owner_id = ?", noteID, ownerID)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.recordEvent("note.delete", fmt.Sprintf("Note %d deleted.", noteID), ownerID)
		s.notifyOwner(ownerID, "note.deleted", map[string]int64{"id": noteID})
	}
	return nil
}

// recordEvent writes an activity event. Event logging is best-effort and
// never fails the note operation itself.
func (s *NoteService) recordEvent(eventType, message string, userID int64) {
	if s.eventService == nil {
		return
	}
	if err := s.eventService.CreateEvent(eventType, "info", message, &userID); err != nil {
		log.Warn().Err(err).Str("type", eventType).Msg("Failed to record note event")
	}
}

// notifyOwner pushes a message to the owner's live feed connections.
func (s *NoteService) notifyOwner(ownerID int64, action string, payload interface{}) {
	if s.hub == nil {
		return
	}
	data, err := json.Marshal(websocket.Message{Action: action, Payload: payload})
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to marshal websocket message")
		return
	}
	s.hub.BroadcastToUser(ownerID, data)
}
