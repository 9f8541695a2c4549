package school

import "edusync/internal/model"

type Vendor struct {
	model.Base
	Name    string `json:"name" validate:"notblank"`
	Contact string `json:"contact,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

func (v *Vendor) Validate() error {
	return checkFields(v)
}
