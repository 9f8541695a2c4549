package health

import "time"

type Input struct{}

type Output struct {
	Body Response
}

// Response состояние сервера документов
type Response struct {
	Status  string    `json:"status" example:"OK" doc:"Health status of the document server"`
	Storage string    `json:"storage" example:"ok" doc:"Result of the storage ping"`
	Time    time.Time `json:"time" doc:"Server time, UTC"`
}
