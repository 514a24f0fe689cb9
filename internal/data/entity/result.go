package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ResultStatusPending   = "Pendiente"
	ResultStatusCompleted = "completado"
)

type Patient struct {
	Base
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	DNI       string    `db:"dni"`
	BirthDate time.Time `db:"birth_date"`
	Sex       Sex       `db:"sex"`
}

type Result struct {
	Base
	PatientID         uuid.UUID `db:"patient_id"`
	AnalysisID        uuid.UUID `db:"analysis_id"`
	AnalysisName      string    `db:"analysis_name"`
	PatientAnalysisID uuid.UUID `db:"patient_analysis_id"`
	Status            string    `db:"status"`
	RegisteredOn      time.Time `db:"registered_on"`
}

// ResultComponent is one measured component of a result with its verdict.
type ResultComponent struct {
	ID                uuid.UUID `db:"id"`
	ResultID          uuid.UUID `db:"result_id"`
	PatientAnalysisID uuid.UUID `db:"patient_analysis_id"`
	ComponentID       uuid.UUID `db:"component_id"`
	ComponentName     string    `db:"component_name"`
	Value             *float64  `db:"value"`
	Verdict           string    `db:"verdict"`
}
