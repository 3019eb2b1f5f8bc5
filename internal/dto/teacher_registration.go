package dto

// SubjectClassMapping pairs one subject with the classes it is taught to.
type SubjectClassMapping struct {
	SubjectID int64   `json:"subjectId"`
	ClassIDs  []int64 `json:"classIds"`
}

// RegisterTeacherRequest is the teacher registration payload after decoding from JSON or
// multipart form data.
type RegisterTeacherRequest struct {
	SchoolID             int64                 `json:"schoolId"`
	TeacherName          string                `json:"teacherName"`
	DOB                  string                `json:"dob"`
	Email                string                `json:"email"`
	Password             string                `json:"password"`
	Qualification        *string               `json:"qualification,omitempty"`
	ExperienceYears      *int                  `json:"experienceYears,omitempty"`
	PhoneNumber          string                `json:"phone_number"`
	AadhaarNumber        string                `json:"aadhaar_number"`
	Status               string                `json:"status,omitempty"`
	Sections             []string              `json:"sections"`
	SubjectClassMappings []SubjectClassMapping `json:"subjectClassMappings"`

	// Legacy single-assignment shape.
	SubjectID *int64 `json:"subject_id,omitempty"`
	ClassID   *int64 `json:"class_id,omitempty"`

	ProfileImage *Upload `json:"-"`
}

// NormalizeLegacy folds the legacy subject_id/class_id pair into SubjectClassMappings when
// no mappings were sent. A legacy subject without a class becomes a mapping with no classes.
func (r *RegisterTeacherRequest) NormalizeLegacy() {
	if len(r.SubjectClassMappings) > 0 || r.SubjectID == nil {
		return
	}
	mapping := SubjectClassMapping{SubjectID: *r.SubjectID}
	if r.ClassID != nil {
		mapping.ClassIDs = []int64{*r.ClassID}
	}
	r.SubjectClassMappings = []SubjectClassMapping{mapping}
}
