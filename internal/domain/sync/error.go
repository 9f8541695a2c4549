package sync

import "errors"

var (
	// ErrMissingID запись без идентификатора нельзя обновить или удалить
	ErrMissingID = errors.New("record has no id")
	// ErrUnavailable удаленное хранилище недоступно (сеть, таймаут, 5xx)
	ErrUnavailable = errors.New("remote store unavailable")
	// ErrRejected удаленное хранилище отклонило запрос
	ErrRejected = errors.New("remote store rejected request")
	// ErrSyncInProgress синхронизация уже выполняется
	ErrSyncInProgress = errors.New("sync already in progress")
)
