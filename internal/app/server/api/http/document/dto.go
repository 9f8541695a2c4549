package document

type collectionInput struct {
	Collection string `path:"collection" example:"fees" doc:"Имя коллекции"`
}

type documentInput struct {
	Collection string `path:"collection" example:"fees" doc:"Имя коллекции"`
	ID         string `path:"id" example:"7f1c0e62-3f7a-4a8e-9d55-0b8f0e9b2c41" doc:"ID документа"`
}

type createInput struct {
	Collection string         `path:"collection" example:"fees" doc:"Имя коллекции"`
	Body       map[string]any `doc:"Документ в произвольном JSON"`
}

type upsertInput struct {
	Collection string         `path:"collection" example:"fees" doc:"Имя коллекции"`
	ID         string         `path:"id" doc:"ID документа"`
	Body       map[string]any `doc:"Документ в произвольном JSON"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Documents []map[string]any `json:"documents" doc:"Документы в порядке создания"`
}

type findOutput struct {
	Body map[string]any
}

type idOutput struct {
	Body idResponse
}

type idResponse struct {
	ID string `json:"id" doc:"ID сохраненного документа"`
}
