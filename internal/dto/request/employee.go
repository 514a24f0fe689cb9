package request

type CreateEmployeeRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	DNI       string `json:"dni" validate:"required,len=8,numeric"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required,oneof=Administrador Supervisor Biologo Recepcionista"`
	Status    string `json:"status" validate:"omitempty,oneof=Activo Inactivo"`
}

type UpdateEmployeeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Activo Inactivo"`
}
