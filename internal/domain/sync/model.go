package sync

import (
	"fmt"
	"time"

	"edusync/internal/model"
)

// Outcome результат удаленной части операции
type Outcome int

const (
	OutcomeSynced Outcome = iota
	OutcomeNotFound
	OutcomeUnavailable
	OutcomeRejected
	// OutcomeSkipped удаленная операция не выполнялась
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeRejected:
		return "rejected"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// OK true, если удаленное хранилище подтвердило операцию
func (o Outcome) OK() bool {
	return o == OutcomeSynced
}

type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Lookup одно значение последовательности чтения по ID
type Lookup[T model.Entity] struct {
	Value  T
	Found  bool
	Source Source
	Err    error
}

// WriteResult результат записи: локальная запись уже выполнена,
// Remote показывает, дошла ли она до удаленного хранилища.
type WriteResult[T model.Entity] struct {
	Record    T
	Remote    Outcome
	RemoteErr error
}

// Report итог массовой синхронизации коллекции
type Report struct {
	Collection string        `json:"collection"`
	Remote     Outcome       `json:"remote"`
	Fetched    int           `json:"fetched"`
	Downloaded int           `json:"downloaded"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// Strategy кто побеждает при перезаписи локальной копии во время синхронизации
type Strategy string

const (
	// StrategyServer удаленная копия всегда перезаписывает локальную
	StrategyServer Strategy = "server"
	// StrategyNewer локальная копия сохраняется, если она изменена позже удаленной
	StrategyNewer Strategy = "newer"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyServer:
		return StrategyServer, nil
	case StrategyNewer:
		return StrategyNewer, nil
	}
	return "", fmt.Errorf("неизвестная стратегия синхронизации: %s", s)
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
