package dto

// CompletionReportRequest selects the school a completion report is built for.
type CompletionReportRequest struct {
	SchoolID int64 `json:"schoolId" validate:"required,gt=0"`
}
