package dto

// CreateSchoolRequest registers a school and its principal login.
type CreateSchoolRequest struct {
	Name          string  `json:"name" form:"name" validate:"required,max=255"`
	Email         string  `json:"email" form:"email" validate:"required,email"`
	Password      string  `json:"password" form:"password" validate:"required,min=6"`
	Address       *string `json:"address,omitempty" form:"address"`
	PrincipalName *string `json:"principal_name,omitempty" form:"principal_name"`
	Location      *string `json:"location,omitempty" form:"location"`
	SchoolAddress *string `json:"school_address,omitempty" form:"school_address"`
	Logo          *Upload `json:"-" form:"-"`
}
