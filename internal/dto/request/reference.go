package request

type ReferenceBandRequest struct {
	MinValue *float64 `json:"min_value" validate:"required"`
	MaxValue *float64 `json:"max_value" validate:"required"`
	Unit     string   `json:"unit" validate:"max=30"`
	Sex      string   `json:"sex" validate:"required,oneof=Masculino Femenino Ambos"`
	AgeMin   *float64 `json:"age_min,omitempty" validate:"omitempty,gte=0,lte=100"`
	AgeMax   *float64 `json:"age_max,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type ClassifyRequest struct {
	ComponentID string   `json:"component_id" validate:"required,uuid"`
	Value       *float64 `json:"value" validate:"required"`
	Sex         string   `json:"sex" validate:"required,oneof=Masculino Femenino"`
	Age         *float64 `json:"age" validate:"required,gte=0"`
}
