package usecase

import (
	"time"

	"omylab/internal/data/entity"
)

// Verdict is the qualitative reading of a measured value.
type Verdict string

const (
	VerdictLow         Verdict = "Muy bajo"
	VerdictNormal      Verdict = "Normal"
	VerdictHigh        Verdict = "Muy alto"
	VerdictNoReference Verdict = "Sin referencia"
)

// InterpretationCode maps the verdict to the HL7 v3 ObservationInterpretation
// code. NoReference has none.
func (v Verdict) InterpretationCode() string {
	switch v {
	case VerdictLow:
		return "L"
	case VerdictNormal:
		return "N"
	case VerdictHigh:
		return "H"
	default:
		return ""
	}
}

// ApplicableBands keeps the bands that cover sex and age, preserving order.
func ApplicableBands(bands []*entity.ReferenceBand, sex entity.Sex, age float64) []*entity.ReferenceBand {
	var out []*entity.ReferenceBand
	for _, b := range bands {
		if b != nil && b.AppliesToSex(sex) && b.AppliesToAge(age) {
			out = append(out, b)
		}
	}
	return out
}

// SelectBand returns the first band, in slice order, that covers sex and age.
// Overlapping bands are resolved by that order only.
func SelectBand(bands []*entity.ReferenceBand, sex entity.Sex, age float64) *entity.ReferenceBand {
	for _, b := range bands {
		if b != nil && b.AppliesToSex(sex) && b.AppliesToAge(age) {
			return b
		}
	}
	return nil
}

// Classify reads value against the first applicable band. The band interval
// is closed: values equal to a bound are Normal.
func Classify(value float64, bands []*entity.ReferenceBand, sex entity.Sex, age float64) Verdict {
	band := SelectBand(bands, sex, age)
	if band == nil {
		return VerdictNoReference
	}

	switch {
	case value < band.MinValue:
		return VerdictLow
	case value > band.MaxValue:
		return VerdictHigh
	default:
		return VerdictNormal
	}
}

// AgeInYears counts completed years between birth and today.
func AgeInYears(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
