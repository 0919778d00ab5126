// Package memstore implements storage.Store with in-process maps. It backs
// tests and ephemeral environments where a database is not available, and is
// selected with STORAGE_DRIVER=memory.
package memstore

import (
	"sort"
	"sync"
	"time"

	"clinicpro-backend/internal/models"
	"clinicpro-backend/internal/storage"
)

type Store struct {
	mu  sync.RWMutex
	seq uint

	items          map[uint]models.InventoryItem
	movements      map[uint]models.StockMovement
	suppliers      map[uint]models.Supplier
	purchaseOrders map[uint]models.PurchaseOrder
	equipment      map[uint]models.Equipment
	maintenance    map[uint]models.MaintenanceRecord
	alerts         map[uint]models.Alert
	clients        map[uint]models.Client
	students       map[uint]models.Student
	treatments     map[uint]models.Treatment
	bookings       map[uint]models.Booking
	courses        map[uint]models.Course
	enrollments    map[uint]models.Enrollment
	assessments    map[uint]models.Assessment
	certifications map[uint]models.Certification
	templates      map[uint]models.ConsentTemplate
	consentForms   map[uint]models.ConsentForm
	messages       map[uint]models.Message
	payments       map[uint]models.Payment
	users          map[uint]models.User
	auditLogs      map[uint]models.AuditLog
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		items:          map[uint]models.InventoryItem{},
		movements:      map[uint]models.StockMovement{},
		suppliers:      map[uint]models.Supplier{},
		purchaseOrders: map[uint]models.PurchaseOrder{},
		equipment:      map[uint]models.Equipment{},
		maintenance:    map[uint]models.MaintenanceRecord{},
		alerts:         map[uint]models.Alert{},
		clients:        map[uint]models.Client{},
		students:       map[uint]models.Student{},
		treatments:     map[uint]models.Treatment{},
		bookings:       map[uint]models.Booking{},
		courses:        map[uint]models.Course{},
		enrollments:    map[uint]models.Enrollment{},
		assessments:    map[uint]models.Assessment{},
		certifications: map[uint]models.Certification{},
		templates:      map[uint]models.ConsentTemplate{},
		consentForms:   map[uint]models.ConsentForm{},
		messages:       map[uint]models.Message{},
		payments:       map[uint]models.Payment{},
		users:          map[uint]models.User{},
		auditLogs:      map[uint]models.AuditLog{},
	}
}

// nextID assigns identifiers from one store-wide sequence. IDs are never
// reused, even after deletes.
func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

func collect[T any](m map[uint]T, match func(T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

func sortBy[T any](items []T, less func(a, b T) bool) []T {
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
	return items
}

func ptrTime(t time.Time) *time.Time { return &t }
