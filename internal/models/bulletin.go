package models

import "time"

// JobPost is a vacancy published by a school.
type JobPost struct {
	ID                int64     `db:"id" json:"id"`
	SchoolID          *int64    `db:"school_id" json:"school_id,omitempty"`
	Type              string    `db:"type" json:"type"`
	Position          string    `db:"position" json:"position"`
	Qualification     string    `db:"qualification" json:"qualification"`
	Experience        *string   `db:"experience" json:"experience,omitempty"`
	AdditionalMessage *string   `db:"additional_message" json:"additional_message,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// Notification is a broadcast message shown on the admin board.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Message   *string   `db:"message" json:"message,omitempty"`
	Type      string    `db:"type" json:"type"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
