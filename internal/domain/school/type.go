package school

import "fmt"

type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentSuspended StudentStatus = "suspended"
	StudentGraduated StudentStatus = "graduated"
	StudentWithdrawn StudentStatus = "withdrawn"
)

func (s StudentStatus) Validate() error {
	switch s {
	case StudentActive, StudentSuspended, StudentGraduated, StudentWithdrawn:
		return nil
	}
	return fmt.Errorf("%w: student status %q", ErrInvalidRecord, s)
}

func (s StudentStatus) String() string {
	return string(s)
}

type FeeStatus string

const (
	FeePending FeeStatus = "pending"
	FeePartial FeeStatus = "partial"
	FeePaid    FeeStatus = "paid"
	FeeWaived  FeeStatus = "waived"
	FeeOverdue FeeStatus = "overdue"
)

func (s FeeStatus) Validate() error {
	switch s {
	case FeePending, FeePartial, FeePaid, FeeWaived, FeeOverdue:
		return nil
	}
	return fmt.Errorf("%w: fee status %q", ErrInvalidRecord, s)
}

func (s FeeStatus) String() string {
	return string(s)
}

// DisplayName возвращает человекочитаемое название статуса.
func (s FeeStatus) DisplayName() string {
	switch s {
	case FeePending:
		return "Ожидает оплаты"
	case FeePartial:
		return "Оплачен частично"
	case FeePaid:
		return "Оплачен"
	case FeeWaived:
		return "Списан"
	case FeeOverdue:
		return "Просрочен"
	default:
		return "Неизвестный статус"
	}
}

type InvoiceStatus string

const (
	InvoiceDraft  InvoiceStatus = "draft"
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceVoid:
		return nil
	}
	return fmt.Errorf("%w: invoice status %q", ErrInvalidRecord, s)
}

func (s InvoiceStatus) String() string {
	return string(s)
}

type TransactionKind string

const (
	TransactionIncome  TransactionKind = "income"
	TransactionExpense TransactionKind = "expense"
)

func (k TransactionKind) Validate() error {
	switch k {
	case TransactionIncome, TransactionExpense:
		return nil
	}
	return fmt.Errorf("%w: transaction kind %q", ErrInvalidRecord, k)
}

func (k TransactionKind) String() string {
	return string(k)
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Validate() error {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return nil
	}
	return fmt.Errorf("%w: attendance status %q", ErrInvalidRecord, s)
}

func (s AttendanceStatus) String() string {
	return string(s)
}

type QuizStatus string

const (
	QuizDraft     QuizStatus = "draft"
	QuizPublished QuizStatus = "published"
	QuizClosed    QuizStatus = "closed"
)

func (s QuizStatus) Validate() error {
	switch s {
	case QuizDraft, QuizPublished, QuizClosed:
		return nil
	}
	return fmt.Errorf("%w: quiz status %q", ErrInvalidRecord, s)
}

func (s QuizStatus) String() string {
	return string(s)
}
