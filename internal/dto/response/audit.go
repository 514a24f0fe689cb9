package response

import (
	"time"

	"omylab/internal/data/entity"
)

type AuditResponse struct {
	ID           string    `json:"id"`
	Activity     string    `json:"activity"`
	Description  string    `json:"description"`
	Comment      string    `json:"comment"`
	EntityID     string    `json:"entity_id"`
	Action       string    `json:"action"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Timestamp    time.Time `json:"timestamp"`
}

func AuditToResponse(e *entity.AuditEntry) AuditResponse {
	return AuditResponse{
		ID:           e.ID.String(),
		Activity:     e.Activity,
		Description:  e.Description,
		Comment:      e.Comment,
		EntityID:     e.EntityID.String(),
		Action:       e.Action,
		EmployeeID:   e.EmployeeID.String(),
		EmployeeName: e.EmployeeName,
		Timestamp:    e.CreatedAt,
	}
}
