package school

import (
	"fmt"
	"time"

	"edusync/internal/model"
)

type Attendance struct {
	model.Base
	StudentID string           `json:"student_id" validate:"notblank"`
	ClassID   string           `json:"class_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
}

func (a *Attendance) Validate() error {
	if err := checkFields(a); err != nil {
		return err
	}
	if a.Date.IsZero() {
		return fmt.Errorf("%w: attendance date is required", ErrInvalidRecord)
	}
	return a.Status.Validate()
}
