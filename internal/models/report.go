package models

import "time"

// CompletionStatus marks whether a school finished a lesson.
type CompletionStatus string

const (
	CompletionCompleted  CompletionStatus = "completed"
	CompletionIncomplete CompletionStatus = "incomplete"
)

// ReportLesson is a lesson visible to a school when building its completion report.
type ReportLesson struct {
	ID              int64     `db:"id"`
	LessonName      string    `db:"lesson_name"`
	ClassName       *string   `db:"class_name"`
	SubjectName     *string   `db:"subject_name"`
	IsForAllSchools bool      `db:"is_for_all_schools"`
	CreatedAt       time.Time `db:"created_at"`
}

// CompletedResponse is a completed class response submitted by a teacher.
type CompletedResponse struct {
	LessonName  string    `db:"lesson_name"`
	TeacherName string    `db:"teacher_name"`
	SubmittedAt time.Time `db:"submitted_at"`
}

// CompletionReportRow is one lesson line of a school's completion report.
type CompletionReportRow struct {
	LessonID    int64            `json:"lessonId"`
	LessonName  string           `json:"lessonName"`
	ClassName   string           `json:"className"`
	SubjectName string           `json:"subjectName"`
	Scope       string           `json:"scope"`
	Status      CompletionStatus `json:"status"`
	CompletedBy *string          `json:"completedBy,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

// CompletionReport summarises lesson completion for one school.
type CompletionReport struct {
	SchoolID    int64                 `json:"schoolId"`
	SchoolName  string                `json:"schoolName"`
	Total       int                   `json:"total"`
	Completed   int                   `json:"completed"`
	Rows        []CompletionReportRow `json:"lessons"`
	GeneratedAt time.Time             `json:"generatedAt"`
}
