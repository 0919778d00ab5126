// Package storage defines the persistence contract for every managed record.
// Two implementations exist: gormstore (Postgres) for production and memstore
// (in-process fixtures) for tests and ephemeral environments. The active one
// is chosen by dependency injection at startup.
package storage

import (
	"context"
	"errors"
	"time"

	"clinicpro-backend/internal/models"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by every Get* on a missing identifier. It is
	// never a server error; callers decide the HTTP mapping.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock rejects a movement that would drive an item's
	// quantity below zero. No ledger row is written in that case.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity rejects a movement with a non-positive magnitude.
	ErrInvalidQuantity = errors.New("movement quantity must be positive")

	// ErrConflict signals a concurrent modification or an illegal status
	// transition (e.g. re-receiving a purchase order).
	ErrConflict = errors.New("conflicting update")

	// ErrImmutable rejects edits to a signed consent form's content.
	ErrImmutable = errors.New("record is immutable")
)

type ItemFilter struct {
	Category   string
	Location   string
	SupplierID uint
}

type EquipmentFilter struct {
	Category string
	Location string
	Status   models.EquipmentStatus
}

type AlertFilter struct {
	Type             models.AlertType
	ResourceType     string
	UnreadOnly       bool
	IncludeDismissed bool
}

type BookingFilter struct {
	ClientID       uint
	PractitionerID uint
	Status         models.BookingStatus
	From           *time.Time
	To             *time.Time
}

type EnrollmentFilter struct {
	StudentID uint
	CourseID  uint
}

type AssessmentFilter struct {
	StudentID uint
	CourseID  uint
}

type PaymentFilter struct {
	ClientID uint
	Status   models.PaymentStatus
}

type AuditFilter struct {
	EntityType string
	Limit      int
}

// MovementParams carries one requested stock movement. Quantity is always a
// positive magnitude; direction comes from Type.
type MovementParams struct {
	ItemID    uint
	Type      models.MovementType
	Quantity  int
	Reason    string
	Reference string
	ActorID   uint
}

type MaintenanceCompletion struct {
	CompletedAt      time.Time
	IssuesFound      string
	ActionsPerformed string
	Cost             decimal.Decimal
	NextServiceDate  *time.Time
}

type InventoryStore interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	GetItem(ctx context.Context, id uint) (*models.InventoryItem, error)
	ListItems(ctx context.Context, f ItemFilter) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, id uint, fields map[string]any) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id uint) error

	// RecordMovement appends a ledger row and updates the item's quantity in
	// one atomic step. The quantity update is conditional on the previously
	// read value and retried once on conflict.
	RecordMovement(ctx context.Context, p MovementParams) (*models.StockMovement, error)
	ListMovements(ctx context.Context, itemID uint) ([]models.StockMovement, error)
}

type SupplierStore interface {
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	GetSupplier(ctx context.Context, id uint) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	UpdateSupplier(ctx context.Context, id uint, fields map[string]any) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uint) error
}

type PurchaseOrderStore interface {
	CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, id uint) (*models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, status models.PurchaseOrderStatus) ([]models.PurchaseOrder, error)

	// SetPurchaseOrderStatus guards terminal states: a received or cancelled
	// order cannot transition again (ErrConflict).
	SetPurchaseOrderStatus(ctx context.Context, id uint, status models.PurchaseOrderStatus) (*models.PurchaseOrder, error)
}

type EquipmentStore interface {
	CreateEquipment(ctx context.Context, e *models.Equipment) error
	GetEquipment(ctx context.Context, id uint) (*models.Equipment, error)
	ListEquipment(ctx context.Context, f EquipmentFilter) ([]models.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint, fields map[string]any) (*models.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint) error

	CreateMaintenance(ctx context.Context, r *models.MaintenanceRecord) error
	GetMaintenance(ctx context.Context, id uint) (*models.MaintenanceRecord, error)
	ListMaintenance(ctx context.Context, equipmentID uint) ([]models.MaintenanceRecord, error)

	// CompleteMaintenance writes the record and the owning equipment's
	// service dates/status in one transaction. Completing an already
	// completed record does not regress the equipment's status.
	CompleteMaintenance(ctx context.Context, id uint, p MaintenanceCompletion) (*models.MaintenanceRecord, error)
}

type AlertStore interface {
	CreateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context, f AlertFilter) ([]models.Alert, error)
	SetAlertRead(ctx context.Context, id uint) (*models.Alert, error)
	SetAlertDismissed(ctx context.Context, id uint) (*models.Alert, error)
}

type ClientStore interface {
	CreateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, id uint, fields map[string]any) (*models.Client, error)
	DeleteClient(ctx context.Context, id uint) error
}

type StudentStore interface {
	CreateStudent(ctx context.Context, s *models.Student) error
	GetStudent(ctx context.Context, id uint) (*models.Student, error)
	ListStudents(ctx context.Context, status models.StudentStatus) ([]models.Student, error)
	UpdateStudent(ctx context.Context, id uint, fields map[string]any) (*models.Student, error)
	DeleteStudent(ctx context.Context, id uint) error
}

type TreatmentStore interface {
	CreateTreatment(ctx context.Context, t *models.Treatment) error
	GetTreatment(ctx context.Context, id uint) (*models.Treatment, error)
	ListTreatments(ctx context.Context, category string) ([]models.Treatment, error)
	UpdateTreatment(ctx context.Context, id uint, fields map[string]any) (*models.Treatment, error)
	DeleteTreatment(ctx context.Context, id uint) error
}

type BookingStore interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, id uint, fields map[string]any) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id uint) error

	// HasBookingOverlap reports whether the practitioner already has a
	// scheduled booking intersecting [start, end). excludeID skips the
	// booking being updated.
	HasBookingOverlap(ctx context.Context, practitionerID uint, start, end time.Time, excludeID uint) (bool, error)
}

type CourseStore interface {
	CreateCourse(ctx context.Context, c *models.Course) error
	GetCourse(ctx context.Context, id uint) (*models.Course, error)
	ListCourses(ctx context.Context, level string) ([]models.Course, error)
	UpdateCourse(ctx context.Context, id uint, fields map[string]any) (*models.Course, error)
	DeleteCourse(ctx context.Context, id uint) error
}

type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, e *models.Enrollment) error
	GetEnrollment(ctx context.Context, id uint) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, f EnrollmentFilter) ([]models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, id uint, fields map[string]any) (*models.Enrollment, error)
	CountActiveEnrollments(ctx context.Context, courseID uint) (int, error)
}

type AssessmentStore interface {
	CreateAssessment(ctx context.Context, a *models.Assessment) error
	GetAssessment(ctx context.Context, id uint) (*models.Assessment, error)
	ListAssessments(ctx context.Context, f AssessmentFilter) ([]models.Assessment, error)
	UpdateAssessment(ctx context.Context, id uint, fields map[string]any) (*models.Assessment, error)
}

type CertificationStore interface {
	CreateCertification(ctx context.Context, c *models.Certification) error
	ListCertifications(ctx context.Context, studentID uint) ([]models.Certification, error)
}

type ConsentStore interface {
	CreateConsentTemplate(ctx context.Context, t *models.ConsentTemplate) error
	GetConsentTemplate(ctx context.Context, id uint) (*models.ConsentTemplate, error)
	ListConsentTemplates(ctx context.Context) ([]models.ConsentTemplate, error)

	// CreateConsentForm fails with ErrNotFound when the referenced template
	// or client does not exist.
	CreateConsentForm(ctx context.Context, f *models.ConsentForm) error
	GetConsentForm(ctx context.Context, id uint) (*models.ConsentForm, error)
	ListConsentForms(ctx context.Context, clientID uint) ([]models.ConsentForm, error)

	// UpdateConsentForm rejects content edits on a signed form with
	// ErrImmutable. Status changes go through SetConsentFormStatus.
	UpdateConsentForm(ctx context.Context, id uint, fields map[string]any) (*models.ConsentForm, error)
	SetConsentFormStatus(ctx context.Context, id uint, status models.ConsentStatus) (*models.ConsentForm, error)
}

type MessageStore interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	ListMessagesForUser(ctx context.Context, recipientID uint) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, id uint) (*models.Message, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, id uint) (*models.Payment, error)
	ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, error)
	SetPaymentAgeVerified(ctx context.Context, id, verifiedBy uint) (*models.Payment, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsersByRole(ctx context.Context, role models.UserRole) (int, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, error)
}

// Store is the full capability set a server instance is wired with.
type Store interface {
	InventoryStore
	SupplierStore
	PurchaseOrderStore
	EquipmentStore
	AlertStore
	ClientStore
	StudentStore
	TreatmentStore
	BookingStore
	CourseStore
	EnrollmentStore
	AssessmentStore
	CertificationStore
	ConsentStore
	MessageStore
	PaymentStore
	UserStore
	AuditStore
}
