package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/facegate/facegate/internal/web/handlers"
)

func (s *Server) setupRoutes(deps Deps) {
	healthHandler := handlers.NewHealthHandler(deps.Provider, deps.Templates)
	enrollHandler := handlers.NewEnrollHandler(s.config, deps.Provider, deps.Templates, deps.Students)
	verifyHandler := handlers.NewVerifyHandler(s.config, deps.Provider, deps.Templates, deps.Ledger)
	studentsHandler := handlers.NewStudentsHandler(deps.Students)
	attendanceHandler := handlers.NewAttendanceHandler(deps.Attendance, deps.Students)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Post("/admin/upload-student-photo", enrollHandler.Upload)
		r.Post("/verify-face", verifyHandler.Verify)

		r.Get("/students", studentsHandler.List)

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/today-stats", attendanceHandler.TodayStats)
			r.Get("/today-list", attendanceHandler.TodayList)
			r.Get("/report", attendanceHandler.Report)
		})
	})
}
