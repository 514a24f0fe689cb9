package response

import (
	"time"

	"omylab/internal/data/entity"
)

type ReferenceBandResponse struct {
	ID          string     `json:"id"`
	ComponentID string     `json:"component_id"`
	MinValue    float64    `json:"min_value"`
	MaxValue    float64    `json:"max_value"`
	Unit        string     `json:"unit"`
	Sex         entity.Sex `json:"sex"`
	AgeMin      *float64   `json:"age_min,omitempty"`
	AgeMax      *float64   `json:"age_max,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
}

func BandToResponse(b *entity.ReferenceBand) ReferenceBandResponse {
	return ReferenceBandResponse{
		ID:          b.ID.String(),
		ComponentID: b.ComponentID.String(),
		MinValue:    b.MinValue,
		MaxValue:    b.MaxValue,
		Unit:        b.Unit,
		Sex:         b.Sex,
		AgeMin:      b.AgeMin,
		AgeMax:      b.AgeMax,
		Position:    b.Position,
		CreatedAt:   b.CreatedAt,
	}
}

func BandsToResponse(bands []*entity.ReferenceBand) []ReferenceBandResponse {
	out := make([]ReferenceBandResponse, 0, len(bands))
	for _, b := range bands {
		out = append(out, BandToResponse(b))
	}
	return out
}

type ClassificationResponse struct {
	Value              float64                `json:"value"`
	Verdict            string                 `json:"verdict"`
	InterpretationCode string                 `json:"interpretation_code,omitempty"`
	Band               *ReferenceBandResponse `json:"band,omitempty"`
}
