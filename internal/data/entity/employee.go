package entity

type EmployeeRole string

const (
	RoleAdministrator EmployeeRole = "Administrador"
	RoleSupervisor    EmployeeRole = "Supervisor"
	RoleBiologist     EmployeeRole = "Biologo"
	RoleReceptionist  EmployeeRole = "Recepcionista"
)

type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "Activo"
	StatusInactive EmployeeStatus = "Inactivo"
)

type Employee struct {
	Base
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	DNI       string         `db:"dni"`
	Email     string         `db:"email"`
	Username  string         `db:"username"`
	Password  string         `db:"password"`
	Role      EmployeeRole   `db:"role"`
	Status    EmployeeStatus `db:"status"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e *Employee) IsActive() bool {
	return e.Status == StatusActive
}
