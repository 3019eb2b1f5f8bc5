package models

import "time"

// School is a registered school. Its principal signs in with the school email.
type School struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password" json:"-"`
	Logo          *string   `db:"logo" json:"logo,omitempty"`
	Address       *string   `db:"address" json:"address,omitempty"`
	PrincipalName *string   `db:"principal_name" json:"principal_name,omitempty"`
	Location      *string   `db:"location" json:"location,omitempty"`
	SchoolAddress *string   `db:"school_address" json:"school_address,omitempty"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolSummary is a school listed together with its teacher head count.
type SchoolSummary struct {
	School
	TeacherCount int `db:"teacher_count" json:"teacher_count"`
}

// SchoolOption is the id/name pair used by selectors.
type SchoolOption struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
