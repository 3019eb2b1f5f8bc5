package models

import "time"

// PrincipalActivity is an active school (principal) session.
type PrincipalActivity struct {
	ID            int64      `db:"id" json:"id"`
	SchoolID      int64      `db:"school_id" json:"school_id"`
	SchoolName    string     `db:"school_name" json:"school_name"`
	PrincipalName *string    `db:"principal_name" json:"principal_name,omitempty"`
	Email         string     `db:"email" json:"email"`
	UserAgent     *string    `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress     *string    `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt     *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	LastActivity  time.Time  `db:"last_activity" json:"last_activity"`
}

// TeacherActivity is an active teacher session.
type TeacherActivity struct {
	ID           int64      `db:"id" json:"id"`
	TeacherID    int64      `db:"teacher_id" json:"teacher_id"`
	TeacherName  string     `db:"teacher_name" json:"teacherName"`
	Email        string     `db:"email" json:"email"`
	SchoolName   string     `db:"school_name" json:"school_name"`
	UserAgent    *string    `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string    `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	LastActivity time.Time  `db:"last_activity" json:"last_activity"`
}
