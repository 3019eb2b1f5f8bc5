package dto

// CreateFAQRequest submits a new question.
type CreateFAQRequest struct {
	Question string `json:"question" validate:"required"`
}

// AnswerFAQRequest answers an existing question.
type AnswerFAQRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// CreateNotificationRequest publishes a notification.
type CreateNotificationRequest struct {
	Title   string  `json:"title" validate:"required,max=255"`
	Type    string  `json:"type" validate:"required,max=50"`
	Message *string `json:"message,omitempty"`
}
