package request

type ComponentValue struct {
	ResultComponentID string   `json:"result_component_id" validate:"required,uuid"`
	Value             *float64 `json:"value" validate:"required"`
}

type RecordResultsRequest struct {
	Components []ComponentValue `json:"components" validate:"required,min=1,dive"`
}
