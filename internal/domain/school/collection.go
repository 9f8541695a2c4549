package school

import (
	"fmt"

	"edusync/internal/model"
)

// Имена коллекций в удаленном хранилище и в локальной базе
const (
	CollectionStudents     = "students"
	CollectionFees         = "fees"
	CollectionInvoices     = "invoices"
	CollectionTransactions = "transactions"
	CollectionProducts     = "products"
	CollectionVendors      = "vendors"
	CollectionAttendance   = "attendance"
	CollectionQuizzes      = "quizzes"
)

// Collections все коллекции в порядке синхронизации: справочники раньше зависимых записей
var Collections = []string{
	CollectionStudents,
	CollectionVendors,
	CollectionProducts,
	CollectionFees,
	CollectionInvoices,
	CollectionTransactions,
	CollectionAttendance,
	CollectionQuizzes,
}

// Validator реализуют все доменные записи
type Validator interface {
	Validate() error
}

// Record доменная запись: сущность с валидацией
type Record interface {
	model.Entity
	Validator
}

// New создает пустую запись для указанной коллекции
func New(collection string) (Record, error) {
	switch collection {
	case CollectionStudents:
		return &Student{}, nil
	case CollectionFees:
		return &Fee{}, nil
	case CollectionInvoices:
		return &Invoice{}, nil
	case CollectionTransactions:
		return &Transaction{}, nil
	case CollectionProducts:
		return &Product{}, nil
	case CollectionVendors:
		return &Vendor{}, nil
	case CollectionAttendance:
		return &Attendance{}, nil
	case CollectionQuizzes:
		return &Quiz{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
}
