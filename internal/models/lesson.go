package models

import "time"

// Lesson is an uploaded syllabus PDF.
type Lesson struct {
	ID               int64     `db:"id" json:"id"`
	LessonName       string    `db:"lesson_name" json:"lessonName"`
	PDFURL           string    `db:"pdf_url" json:"pdfUrl"`
	ObjectKey        string    `db:"object_key" json:"-"`
	ClassID          int64     `db:"class_id" json:"classId"`
	SubjectID        *int64    `db:"subject_id" json:"subjectId,omitempty"`
	SchoolID         *int64    `db:"school_id" json:"schoolId,omitempty"`
	IsForAllSchools  bool      `db:"is_for_all_schools" json:"isForAllSchools"`
	LessonOutcomes   *string   `db:"lesson_outcomes" json:"lessonOutcomes,omitempty"`
	LessonObjectives *string   `db:"lesson_objectives" json:"lessonObjectives,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// LessonRecord is a lesson joined with the names of its class, school and subject.
type LessonRecord struct {
	Lesson
	ClassName   *string `db:"class_name"`
	SchoolName  *string `db:"school_name"`
	SubjectName *string `db:"subject_name"`
}

// LessonView is the lesson shape returned to clients.
type LessonView struct {
	ID               int64     `json:"id"`
	LessonName       string    `json:"lessonName"`
	PDFURL           string    `json:"pdfUrl"`
	ClassID          int64     `json:"classId"`
	ClassName        string    `json:"className"`
	SchoolID         *int64    `json:"schoolId,omitempty"`
	SchoolName       string    `json:"schoolName"`
	SubjectID        *int64    `json:"subjectId,omitempty"`
	SubjectName      string    `json:"subjectName"`
	IsForAllSchools  bool      `json:"isForAllSchools"`
	LessonOutcomes   *string   `json:"lessonOutcomes,omitempty"`
	LessonObjectives *string   `json:"lessonObjectives,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
