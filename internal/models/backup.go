package models

import "time"

// Backup represents a snapshot of the notes database.
type Backup struct {
	ID        string    `json:"id"`
	Path      string    `json:"-"` // Internal use, not exposed to client
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
