package models

import "time"

// Note is a single free-text note belonging to exactly one user.
// The owner reference is set at creation and never reassigned.
type Note struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
