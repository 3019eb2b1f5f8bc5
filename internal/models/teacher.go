package models

import (
	"time"

	"github.com/lib/pq"
)

// TeacherStatus enumerates the lifecycle states of a teacher.
type TeacherStatus string

const (
	TeacherStatusActive   TeacherStatus = "active"
	TeacherStatusInactive TeacherStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s TeacherStatus) Valid() bool {
	return s == TeacherStatusActive || s == TeacherStatusInactive
}

// Teacher represents a teacher registered under a school.
type Teacher struct {
	ID               int64          `db:"id" json:"id"`
	SchoolID         int64          `db:"school_id" json:"school_id"`
	TeacherName      string         `db:"teacher_name" json:"teacherName"`
	DOB              time.Time      `db:"dob" json:"dob"`
	Email            string         `db:"email" json:"email"`
	PasswordHash     string         `db:"password" json:"-"`
	Qualification    *string        `db:"qualification" json:"qualification,omitempty"`
	ExperienceYears  *int           `db:"experience_years" json:"experienceYears,omitempty"`
	PhoneNumber      string         `db:"phone_number" json:"phone_number"`
	AadhaarNumber    string         `db:"aadhaar_number" json:"aadhaar_number"`
	ProfileImage     *string        `db:"profile_image" json:"profileImage,omitempty"`
	Status           TeacherStatus  `db:"status" json:"status"`
	AssignedClasses  pq.StringArray `db:"assignedclasses" json:"assignedclasses"`
	AssignedSections pq.StringArray `db:"assignedsections" json:"assignedsections"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// TeacherDetail is a teacher joined with its school name and the ids of its class/subject assignments.
type TeacherDetail struct {
	Teacher
	SchoolName string        `db:"school_name" json:"school_name"`
	ClassIDs   pq.Int64Array `db:"class_ids" json:"class_ids"`
	SubjectIDs pq.Int64Array `db:"subject_ids" json:"subject_ids"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	SchoolID *int64
}

// TeacherClassSubject records that a teacher teaches a subject to a class.
type TeacherClassSubject struct {
	ID        int64     `db:"id" json:"id"`
	TeacherID int64     `db:"teacher_id" json:"teacher_id"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	ClassID   int64     `db:"class_id" json:"class_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
