package school

import (
	"strings"
	"time"

	"edusync/internal/model"
)

type Student struct {
	model.Base
	FirstName     string        `json:"first_name" validate:"notblank"`
	LastName      string        `json:"last_name" validate:"notblank"`
	ClassID       string        `json:"class_id"`
	GuardianPhone string        `json:"guardian_phone,omitempty"`
	Status        StudentStatus `json:"status"`
	EnrolledOn    time.Time     `json:"enrolled_on"`
}

func (s *Student) Validate() error {
	if err := checkFields(s); err != nil {
		return err
	}
	if s.Status == "" {
		s.Status = StudentActive
	}
	return s.Status.Validate()
}

func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
