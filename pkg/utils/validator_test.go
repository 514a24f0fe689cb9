package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Username string   `validate:"required"`
	Sex      string   `validate:"required,oneof=Masculino Femenino"`
	Age      *float64 `validate:"omitempty,gte=0,lte=100"`
}

func TestValidateStruct(t *testing.T) {
	age := 30.0
	assert.Nil(t, ValidateStruct(sampleRequest{Username: "lmorales", Sex: "Femenino", Age: &age}))
	assert.Nil(t, ValidateStruct(&sampleRequest{Username: "lmorales", Sex: "Masculino"}))

	tooOld := 120.0
	errs := ValidateStruct(sampleRequest{Sex: "Otro", Age: &tooOld})
	assert.Equal(t, map[string]string{
		"Username": "This field is required",
		"Sex":      "Must be one of: Masculino, Femenino",
		"Age":      "Must be less than or equal to 100",
	}, errs)
}

func TestFormatValidationErrors_SortedByField(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"Username": "This field is required",
		"Code":     "Maximum is 12",
	})
	assert.Equal(t, "Code: Maximum is 12; Username: This field is required", got)
}
