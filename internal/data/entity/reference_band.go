package entity

import "github.com/google/uuid"

type Sex string

const (
	SexMale   Sex = "Masculino"
	SexFemale Sex = "Femenino"
	SexBoth   Sex = "Ambos"
)

// ReferenceBand is a closed [MinValue, MaxValue] interval for one component,
// scoped by sex and an optional age interval. A nil age bound is open.
type ReferenceBand struct {
	Base
	ComponentID uuid.UUID `db:"component_id"`
	MinValue    float64   `db:"min_value"`
	MaxValue    float64   `db:"max_value"`
	Unit        string    `db:"unit"`
	Sex         Sex       `db:"sex"`
	AgeMin      *float64  `db:"age_min"`
	AgeMax      *float64  `db:"age_max"`
	// Position orders bands of a component; the first applicable one wins.
	Position int `db:"position"`
}

func (b *ReferenceBand) AppliesToSex(sex Sex) bool {
	return b.Sex == SexBoth || b.Sex == sex
}

func (b *ReferenceBand) AppliesToAge(age float64) bool {
	if b.AgeMin != nil && *b.AgeMin > age {
		return false
	}
	if b.AgeMax != nil && *b.AgeMax < age {
		return false
	}
	return true
}
