package model

// Subscription живая выборка: первое значение приходит сразу после подписки,
// следующие после каждого изменения хранилища.
// После Cancel канал Updates закрывается и новых значений не будет.
type Subscription[T any] interface {
	Updates() <-chan T
	Cancel()
}
