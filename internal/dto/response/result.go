package response

import "time"

type ResultComponentResponse struct {
	ID                 string                  `json:"id"`
	ComponentID        string                  `json:"component_id"`
	ComponentName      string                  `json:"component_name"`
	Value              *float64                `json:"value,omitempty"`
	Verdict            string                  `json:"verdict,omitempty"`
	InterpretationCode string                  `json:"interpretation_code,omitempty"`
	References         []ReferenceBandResponse `json:"references"`
}

type ResultDetailResponse struct {
	ID           string                    `json:"id"`
	AnalysisName string                    `json:"analysis_name"`
	Status       string                    `json:"status"`
	RegisteredOn time.Time                 `json:"registered_on"`
	PatientName  string                    `json:"patient_name"`
	PatientDNI   string                    `json:"patient_dni"`
	PatientSex   string                    `json:"patient_sex"`
	PatientAge   int                       `json:"patient_age"`
	Components   []ResultComponentResponse `json:"components"`
}
