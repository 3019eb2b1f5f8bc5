package models

import "time"

// FAQ is a question raised by a school, optionally answered by an admin.
type FAQ struct {
	ID         int64      `db:"id" json:"id"`
	Question   string     `db:"question" json:"question"`
	Answer     *string    `db:"answer" json:"answer,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	AnsweredAt *time.Time `db:"answered_at" json:"answered_at,omitempty"`
}
