package entity

import "github.com/google/uuid"

const (
	AuditActivityAccess = "Acceso"
	AuditActionLogin    = "Iniciar Sesión"
	AuditActionLogout   = "Cerrar Sesión"

	AuditActivityEmployee = "Empleado"
	AuditActivityResult   = "Resultado"
	AuditActivityRefRange = "Rango de referencia"
	AuditActionCreate     = "Registrar"
	AuditActionUpdate     = "Actualizar"
	AuditActionDelete     = "Eliminar"
)

type AuditEntry struct {
	BaseSimple
	Activity    string    `db:"activity"`
	Description string    `db:"description"`
	Comment     string    `db:"comment"`
	EntityID    uuid.UUID `db:"entity_id"`
	Action      string    `db:"action"`
	EmployeeID  uuid.UUID `db:"employee_id"`

	// filled by list queries
	EmployeeName string `db:"-"`
}
