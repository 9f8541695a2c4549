package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Container собирает цепочку middleware для очередного обработчика.
// Порядок добавления совпадает с порядком выполнения.
type Container struct {
	huma.Middlewares
}

func NewContainer() *Container {
	return &Container{
		Middlewares: make(huma.Middlewares, 0),
	}
}

// Add добавляет middleware в конец цепочки
func (mc *Container) Add(mws ...func(ctx huma.Context, next func(huma.Context))) {
	mc.Middlewares = append(mc.Middlewares, mws...)
}

// GetAllAndClear отдает собранную цепочку и начинает новую
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := mc.Middlewares
	mc.Middlewares = nil
	return result
}
