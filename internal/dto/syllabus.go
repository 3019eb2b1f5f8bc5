package dto

// CreateSyllabusRequest is the multipart syllabus upload.
type CreateSyllabusRequest struct {
	ClassID          int64  `validate:"required,gt=0"`
	SubjectID        int64  `validate:"required,gt=0"`
	LessonName       string `validate:"required,max=255"`
	SchoolID         *int64
	IsForAllSchools  bool
	LessonOutcomes   *string
	LessonObjectives *string
	File             *Upload `validate:"required"`
}

// UpdateSyllabusRequest renames a lesson and optionally replaces its outcomes/objectives.
type UpdateSyllabusRequest struct {
	LessonName       string  `json:"lessonName" validate:"required,max=255"`
	LessonOutcomes   *string `json:"lessonOutcomes,omitempty"`
	LessonObjectives *string `json:"lessonObjectives,omitempty"`
}
