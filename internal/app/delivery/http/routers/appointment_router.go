package routers

import (
	"healnexus-service/internal/app/delivery/http/controllers"
	"healnexus-service/internal/app/delivery/http/middlewares"
	"healnexus-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, appointmentController *controllers.AppointmentController) {
	router.Use(middlewares.Authenticate)

	patientOnly := middlewares.RequireRole(constvars.RolePatient)
	doctorOnly := middlewares.RequireRole(constvars.RoleDoctor)

	router.With(patientOnly).Post("/", appointmentController.BookAppointment)
	router.With(patientOnly).Get("/", appointmentController.ListPatientAppointments)
	router.With(patientOnly).Put("/{appointmentID}/cancel", appointmentController.CancelAppointment)
	router.With(patientOnly).Put("/{appointmentID}/pay", appointmentController.ConfirmPayment)
	router.Get("/booked-slots/{doctorID}", appointmentController.ListBookedSlots)
	router.With(doctorOnly).Get("/doctor", appointmentController.ListDoctorAppointments)
	router.With(doctorOnly).Post("/{appointmentID}/complete", appointmentController.CompleteAppointment)
}
