package dto

// CreateSubjectRequest adds a subject to the catalogue.
type CreateSubjectRequest struct {
	Name string  `json:"name" validate:"required,max=255"`
	Code *string `json:"code,omitempty" validate:"omitempty,max=50"`
}

// ClassRequest creates or renames a class.
type ClassRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}
