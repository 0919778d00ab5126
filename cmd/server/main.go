package main

import (
	"log"
	"strings"

	"clinicpro-backend/internal/academy"
	"clinicpro-backend/internal/alerts"
	"clinicpro-backend/internal/audit"
	"clinicpro-backend/internal/auth"
	"clinicpro-backend/internal/booking"
	"clinicpro-backend/internal/clients"
	"clinicpro-backend/internal/config"
	"clinicpro-backend/internal/consent"
	"clinicpro-backend/internal/database"
	"clinicpro-backend/internal/equipment"
	"clinicpro-backend/internal/inventory"
	"clinicpro-backend/internal/logger"
	"clinicpro-backend/internal/messaging"
	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/payments"
	"clinicpro-backend/internal/storage"
	"clinicpro-backend/internal/storage/gormstore"
	"clinicpro-backend/internal/storage/memstore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "clinicpro-backend")
	if err != nil {
		log.Fatal("logger init failed:", err)
	}
	defer zlog.Sync()

	var store storage.Store
	if cfg.StorageDriver == "memory" {
		store = memstore.New()
	} else {
		db, err := database.Connect(cfg)
		if err != nil {
			zlog.Fatal("database init failed", zap.Error(err))
		}
		store = gormstore.New(db)
	}

	var processor payments.Processor
	if cfg.PaymentAPIKey != "" {
		processor = payments.NewRestProcessor(cfg.PaymentAPIBase, cfg.PaymentAPIKey)
	} else {
		processor = payments.NewLocalProcessor()
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			zlog.Error("unexpected error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg, store))
	api.Post("/auth/login", auth.LoginHandler(cfg, store))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(store))

	// Clients
	protected.Post("/clients", clients.CreateClientHandler(store))
	protected.Get("/clients", clients.ListClientsHandler(store))
	protected.Get("/clients/:id", clients.GetClientHandler(store))
	protected.Put("/clients/:id", clients.UpdateClientHandler(store))
	protected.Delete("/clients/:id", clients.DeleteClientHandler(store))

	// Treatment catalogue
	protected.Post("/treatments", booking.CreateTreatmentHandler(store))
	protected.Get("/treatments", booking.ListTreatmentsHandler(store))
	protected.Get("/treatments/:id", booking.GetTreatmentHandler(store))
	protected.Put("/treatments/:id", booking.UpdateTreatmentHandler(store))
	protected.Delete("/treatments/:id", booking.DeleteTreatmentHandler(store))

	// Appointment diary
	protected.Post("/bookings", booking.CreateBookingHandler(store))
	protected.Get("/bookings", booking.ListBookingsHandler(store))
	protected.Get("/bookings/:id", booking.GetBookingHandler(store))
	protected.Put("/bookings/:id", booking.UpdateBookingHandler(store))
	protected.Delete("/bookings/:id", booking.DeleteBookingHandler(store))

	// Inventory
	protected.Post("/inventory", inventory.CreateItemHandler(store, zlog))
	protected.Get("/inventory", inventory.ListItemsHandler(store))
	protected.Get("/inventory/summary", inventory.SummaryHandler(store))
	protected.Get("/inventory/:id", inventory.GetItemHandler(store))
	protected.Put("/inventory/:id", inventory.UpdateItemHandler(store, zlog))
	protected.Delete("/inventory/:id", inventory.DeleteItemHandler(store, zlog))
	protected.Post("/inventory/:id/movements", inventory.RecordMovementHandler(store, zlog))
	protected.Get("/inventory/:id/movements", inventory.ListMovementsHandler(store))

	// Suppliers
	protected.Post("/suppliers", inventory.CreateSupplierHandler(store))
	protected.Get("/suppliers", inventory.ListSuppliersHandler(store))
	protected.Get("/suppliers/:id", inventory.GetSupplierHandler(store))
	protected.Put("/suppliers/:id", inventory.UpdateSupplierHandler(store))
	protected.Delete("/suppliers/:id", inventory.DeleteSupplierHandler(store))

	// Purchase orders
	protected.Post("/purchase-orders", inventory.CreatePurchaseOrderHandler(store))
	protected.Get("/purchase-orders", inventory.ListPurchaseOrdersHandler(store))
	protected.Get("/purchase-orders/:id", inventory.GetPurchaseOrderHandler(store))
	protected.Put("/purchase-orders/:id/status", inventory.SetPurchaseOrderStatusHandler(store, zlog))

	// Equipment & maintenance
	protected.Post("/equipment", equipment.CreateEquipmentHandler(store, zlog))
	protected.Get("/equipment", equipment.ListEquipmentHandler(store))
	protected.Get("/equipment/summary", equipment.SummaryHandler(store))
	protected.Get("/equipment/:id", equipment.GetEquipmentHandler(store))
	protected.Put("/equipment/:id", equipment.UpdateEquipmentHandler(store, zlog))
	protected.Delete("/equipment/:id", equipment.DeleteEquipmentHandler(store, zlog))
	protected.Post("/equipment/:id/maintenance", equipment.ScheduleMaintenanceHandler(store, zlog))
	protected.Get("/equipment/:id/maintenance", equipment.ListMaintenanceHandler(store))
	protected.Put("/maintenance/:id/complete", equipment.CompleteMaintenanceHandler(store, zlog))

	// Alerts
	protected.Get("/alerts", alerts.ListAlertsHandler(store))
	protected.Put("/alerts/:id/read", alerts.MarkAlertReadHandler(store))
	protected.Put("/alerts/:id/dismiss", alerts.DismissAlertHandler(store))

	// Academy
	protected.Post("/students", academy.CreateStudentHandler(store))
	protected.Get("/students", academy.ListStudentsHandler(store))
	protected.Get("/students/:id", academy.GetStudentHandler(store))
	protected.Put("/students/:id", academy.UpdateStudentHandler(store))
	protected.Delete("/students/:id", academy.DeleteStudentHandler(store))

	protected.Post("/courses", academy.CreateCourseHandler(store))
	protected.Get("/courses", academy.ListCoursesHandler(store))
	protected.Get("/courses/:id", academy.GetCourseHandler(store))
	protected.Put("/courses/:id", academy.UpdateCourseHandler(store))
	protected.Delete("/courses/:id", academy.DeleteCourseHandler(store))

	protected.Post("/enrollments", academy.CreateEnrollmentHandler(store))
	protected.Get("/enrollments", academy.ListEnrollmentsHandler(store))
	protected.Put("/enrollments/:id", academy.UpdateEnrollmentHandler(store))

	protected.Post("/assessments", academy.CreateAssessmentHandler(store))
	protected.Get("/assessments", academy.ListAssessmentsHandler(store))
	protected.Put("/assessments/:id/grade", academy.GradeAssessmentHandler(store))

	protected.Post("/certifications", academy.CreateCertificationHandler(store))
	protected.Get("/certifications", academy.ListCertificationsHandler(store))
	protected.Get("/certifications/expiring", academy.ListExpiringCertificationsHandler(store))

	// Consent
	protected.Post("/consent-templates", consent.CreateTemplateHandler(store))
	protected.Get("/consent-templates", consent.ListTemplatesHandler(store))
	protected.Get("/consent-templates/:id", consent.GetTemplateHandler(store))
	protected.Post("/consent-forms", consent.CreateFormHandler(store))
	protected.Get("/consent-forms", consent.ListFormsHandler(store))
	protected.Get("/consent-forms/:id", consent.GetFormHandler(store))
	protected.Put("/consent-forms/:id", consent.UpdateFormHandler(store))
	protected.Post("/consent-forms/:id/sign", consent.SignFormHandler(store))
	protected.Put("/consent-forms/:id/status", consent.SetFormStatusHandler(store))

	// Messages
	protected.Post("/messages", messaging.SendMessageHandler(store))
	protected.Get("/messages", messaging.ListMessagesHandler(store))
	protected.Put("/messages/:id/read", messaging.MarkMessageReadHandler(store))

	// Payments
	protected.Post("/payments", payments.CreatePaymentHandler(store, processor, zlog))
	protected.Get("/payments", payments.ListPaymentsHandler(store))
	protected.Get("/payments/:id", payments.GetPaymentHandler(store))
	protected.Post("/payments/:id/verify-age", payments.VerifyAgeHandler(store))

	// Audit logs, admin only
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(store))

	zlog.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
