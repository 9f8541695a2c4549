package school

import (
	"time"

	"edusync/internal/model"
)

func ByStudent(studentID string) model.Filter {
	return model.Eq("student_id", studentID)
}

func ByClass(classID string) model.Filter {
	return model.Eq("class_id", classID)
}

func ByVendor(vendorID string) model.Filter {
	return model.Eq("vendor_id", vendorID)
}

func FeesWithStatus(status FeeStatus) model.Filter {
	return model.Eq("status", string(status))
}

func InvoicesWithStatus(status InvoiceStatus) model.Filter {
	return model.Eq("status", string(status))
}

func StudentsWithStatus(status StudentStatus) model.Filter {
	return model.Eq("status", string(status))
}

// AttendanceOn выборка отметок за календарный день (UTC)
func AttendanceOn(day time.Time) model.Filter {
	d := day.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return model.Between("date", start, start.Add(24*time.Hour-time.Nanosecond))
}

func DueBetween(from, to time.Time) model.Filter {
	return model.Between("due_date", from, to)
}

func OccurredBetween(from, to time.Time) model.Filter {
	return model.Between("occurred_at", from, to)
}
