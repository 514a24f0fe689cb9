package wire

import (
	"omylab/internal/adaptor"
	"omylab/internal/data/entity"
	"omylab/internal/data/repository"
	"omylab/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var (
	// roles that may read and enter results
	labRoles = []string{
		string(entity.RoleAdministrator),
		string(entity.RoleSupervisor),
		string(entity.RoleBiologist),
	}
	// roles that may maintain reference bands and read the audit trail
	managerRoles = []string{
		string(entity.RoleAdministrator),
		string(entity.RoleSupervisor),
	}
	adminRoles = []string{
		string(entity.RoleAdministrator),
	}
)

func wireLab(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// ==================== RESULTS ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(log, labRoles...))

			r.Post("/api/results/classify", handler.Reference.Classify)
			r.Get("/api/results/{id}", handler.Result.GetResult)
			r.Put("/api/results/{id}/components", handler.Result.RecordResults)
			r.Get("/api/components/{id}/reference-bands", handler.Reference.ListBands)
		})

		// ==================== REFERENCE BANDS & AUDIT ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(log, managerRoles...))

			r.Post("/api/components/{id}/reference-bands", handler.Reference.CreateBand)
			r.Delete("/api/reference-bands/{id}", handler.Reference.DeleteBand)
			r.Get("/api/audit", handler.Audit.List)
		})

		// ==================== EMPLOYEES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(log, adminRoles...))

			r.Get("/api/employees", handler.Employee.List)
			r.Post("/api/employees", handler.Employee.Create)
			r.Patch("/api/employees/{id}/status", handler.Employee.UpdateStatus)
		})
	})
}
